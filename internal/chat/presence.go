// Package chat toggles the player's presence channel between connected and
// suspended through the auxiliary Riot client API.
package chat

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"draftpilot/internal/lcu"
)

// State of the presence channel.
type State string

const (
	StateConnected State = "Connected"
	StateSuspended State = "Suspended"
)

// Requester is the auxiliary-API slice of the LCU client.
type Requester interface {
	RequestAux(method, path string, body any) (*lcu.Response, error)
}

// Presence queries and flips the chat presence state. State is always
// re-fetched from the client, the cached belief only serves the UI between
// refreshes.
type Presence struct {
	client Requester
	log    zerolog.Logger

	mu        sync.Mutex
	lastKnown State
}

// NewPresence creates a Presence toggle.
func NewPresence(client Requester, log zerolog.Logger) *Presence {
	return &Presence{
		client:    client,
		log:       log.With().Str("component", "chat").Logger(),
		lastKnown: StateConnected,
	}
}

// State re-fetches the current presence state from the client.
func (p *Presence) State() (State, error) {
	resp, err := p.client.RequestAux(http.MethodGet, "/chat/v1/session", nil)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("chat session query failed: status %d", resp.Status)
	}

	var session lcu.ChatSession
	if err := resp.DecodeJSON(&session); err != nil {
		return "", err
	}

	state := StateConnected
	if session.State == "disconnected" {
		state = StateSuspended
	}

	p.mu.Lock()
	p.lastKnown = state
	p.mu.Unlock()
	return state, nil
}

// Toggle reads the current state and issues the opposite transition.
// Returns the state after the transition.
func (p *Presence) Toggle() (State, error) {
	current, err := p.State()
	if err != nil {
		return "", err
	}

	if current == StateSuspended {
		if err := p.Resume(); err != nil {
			return "", err
		}
		return StateConnected, nil
	}
	if err := p.Suspend(); err != nil {
		return "", err
	}
	return StateSuspended, nil
}

// Suspend takes the presence channel offline.
func (p *Presence) Suspend() error {
	resp, err := p.client.RequestAux(http.MethodPost, "/chat/v1/suspend", map[string]string{"config": "disable"})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("chat suspend failed: status %d", resp.Status)
	}

	p.mu.Lock()
	p.lastKnown = StateSuspended
	p.mu.Unlock()
	p.log.Info().Msg("chat suspended")
	return nil
}

// Resume brings the presence channel back online.
func (p *Presence) Resume() error {
	resp, err := p.client.RequestAux(http.MethodPost, "/chat/v1/resume", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("chat resume failed: status %d", resp.Status)
	}

	p.mu.Lock()
	p.lastKnown = StateConnected
	p.mu.Unlock()
	p.log.Info().Msg("chat resumed")
	return nil
}

// LastKnown returns the cached belief without touching the client.
func (p *Presence) LastKnown() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastKnown
}
