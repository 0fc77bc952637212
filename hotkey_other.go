//go:build !windows

package main

// registerHotkey is a no-op outside Windows; the global show/hide hook relies
// on user32 keyboard hooks.
func (a *App) registerHotkey() {}
