package main

import (
	"errors"

	"draftpilot/internal/lcu"
)

// ChatStatus is the frontend view of the presence channel.
type ChatStatus struct {
	Available bool   `json:"available"`
	State     string `json:"state,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ChatState re-fetches the current presence state.
func (a *App) ChatState() ChatStatus {
	state, err := a.presence.State()
	if err != nil {
		return a.chatError(err)
	}
	return ChatStatus{Available: true, State: string(state)}
}

// ToggleChat flips the presence channel and returns the resulting state.
func (a *App) ToggleChat() ChatStatus {
	state, err := a.presence.Toggle()
	if err != nil {
		return a.chatError(err)
	}
	return ChatStatus{Available: true, State: string(state)}
}

func (a *App) chatError(err error) ChatStatus {
	if errors.Is(err, lcu.ErrAuxUnavailable) {
		return ChatStatus{Available: false, Reason: "riot client api not found"}
	}
	a.log.Warn().Err(err).Msg("chat state query failed")
	return ChatStatus{
		Available: true,
		State:     string(a.presence.LastKnown()),
		Reason:    err.Error(),
	}
}
