package main

import (
	"syscall"
	"unsafe"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procSetWindowsHookEx = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx   = user32.NewProc("CallNextHookEx")
	procGetMessage       = user32.NewProc("GetMessageW")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

const (
	WH_KEYBOARD_LL = 13
	WM_KEYDOWN     = 0x0100
	VK_D           = 0x44
	VK_CONTROL     = 0x11
)

// KBDLLHOOKSTRUCT contains information about a low-level keyboard input event
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type MSG struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

var appInstance *App
var keyboardHook uintptr

// isKeyPressed checks if a key is currently pressed
func isKeyPressed(vk uintptr) bool {
	ret, _, _ := procGetAsyncKeyState.Call(vk)
	return ret&0x8000 != 0
}

// keyboardProc is the low-level keyboard hook callback
func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && wParam == WM_KEYDOWN {
		kbStruct := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		if kbStruct.VkCode == VK_D && isKeyPressed(VK_CONTROL) {
			if appInstance != nil {
				appInstance.ToggleWindow()
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(keyboardHook, uintptr(nCode), wParam, lParam)
	return ret
}

// registerHotkey installs Ctrl+D as a global show/hide hotkey using a
// low-level keyboard hook.
func (a *App) registerHotkey() {
	appInstance = a

	go func() {
		callback := syscall.NewCallback(keyboardProc)

		ret, _, err := procSetWindowsHookEx.Call(
			WH_KEYBOARD_LL,
			callback,
			0,
			0,
		)
		if ret == 0 {
			a.log.Warn().Err(err).Msg("failed to install keyboard hook, Ctrl+D disabled")
			return
		}
		keyboardHook = ret
		a.log.Info().Msg("registered Ctrl+D show/hide hotkey")

		// Message loop to keep the hook alive
		var msg MSG
		for {
			ret, _, _ := procGetMessage.Call(
				uintptr(unsafe.Pointer(&msg)),
				0, 0, 0,
			)
			if ret == 0 {
				break
			}
		}
	}()
}

// ToggleWindow toggles the window visibility
func (a *App) ToggleWindow() {
	a.windowVisible = !a.windowVisible
	if a.windowVisible {
		a.showWindow()
	} else {
		a.hideWindow()
	}
}

func (a *App) showWindow() {
	if a.ctx != nil {
		go func() {
			// Small delay path: never call into the runtime from inside the
			// Windows message loop.
			if a.ctx != nil {
				wailsRuntime.WindowShow(a.ctx)
			}
		}()
	}
}

func (a *App) hideWindow() {
	if a.ctx != nil {
		go func() {
			if a.ctx != nil {
				wailsRuntime.WindowHide(a.ctx)
			}
		}()
	}
}
