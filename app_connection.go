package main

import (
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// pollForLeagueClient drives the connection lifecycle: discover the client,
// start the automation pollers, and tear everything down again when the
// client goes away.
func (a *App) pollForLeagueClient() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	connected := false
	for {
		select {
		case <-a.stopPoll:
			return
		case <-ticker.C:
			alive := a.healthCheck()
			switch {
			case alive && !connected:
				connected = true
				a.onConnected()
			case !alive && connected:
				connected = false
				a.onDisconnected()
			}
		}
	}
}

// healthCheck resolves credentials if needed and probes the gameflow endpoint
// for liveness. Held credentials are dropped when the probe fails so the next
// pass rediscovers from scratch.
func (a *App) healthCheck() bool {
	if !a.client.Connected() {
		if err := a.client.Connect(); err != nil {
			return false
		}
	}
	if _, err := a.client.GameflowPhase(); err != nil {
		a.client.Disconnect()
		return false
	}
	return true
}

func (a *App) onConnected() {
	a.log.Info().Str("port", a.client.Port()).Msg("league client connected")
	a.emitStatus(true)

	go a.resolver.Refresh()
	a.queue.Start()
	a.champSelect.Start()
	a.connectEventStream()
}

func (a *App) onDisconnected() {
	a.log.Info().Msg("league client disconnected")
	a.events.Disconnect()
	a.emitStatus(false)
}

func (a *App) connectEventStream() {
	creds := a.client.Credentials()
	if creds == nil {
		return
	}
	if err := a.events.Connect(creds); err != nil {
		a.log.Warn().Err(err).Msg("event stream unavailable, status display will lag")
	}
}

func (a *App) emitStatus(connected bool) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, "lcu:status", map[string]interface{}{
		"connected": connected,
		"port":      a.client.Port(),
	})
}

// GetConnectionStatus reports the current connection state to the frontend.
func (a *App) GetConnectionStatus() map[string]interface{} {
	return map[string]interface{}{
		"connected":    a.client.Connected(),
		"port":         a.client.Port(),
		"auxAvailable": a.client.AuxAvailable(),
		"events":       a.events.IsConnected(),
	}
}
