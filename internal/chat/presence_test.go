package chat

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftpilot/internal/lcu"
)

// fakeChatAPI emulates the auxiliary chat endpoints with an actual
// connected/disconnected state.
type fakeChatAPI struct {
	t            *testing.T
	disconnected bool
	err          error
}

func (f *fakeChatAPI) RequestAux(method, path string, body any) (*lcu.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch {
	case method == http.MethodGet && path == "/chat/v1/session":
		state := "connected"
		if f.disconnected {
			state = "disconnected"
		}
		payload, err := json.Marshal(lcu.ChatSession{State: state})
		require.NoError(f.t, err)
		return &lcu.Response{Status: http.StatusOK, Body: payload}, nil
	case method == http.MethodPost && path == "/chat/v1/suspend":
		f.disconnected = true
		return &lcu.Response{Status: http.StatusOK}, nil
	case method == http.MethodPost && path == "/chat/v1/resume":
		f.disconnected = false
		return &lcu.Response{Status: http.StatusOK}, nil
	}
	return &lcu.Response{Status: http.StatusNotFound}, nil
}

func TestStateReflectsSession(t *testing.T) {
	api := &fakeChatAPI{t: t}
	p := NewPresence(api, zerolog.Nop())

	state, err := p.State()
	require.NoError(t, err)
	assert.Equal(t, StateConnected, state)

	api.disconnected = true
	state, err = p.State()
	require.NoError(t, err)
	assert.Equal(t, StateSuspended, state)
	assert.Equal(t, StateSuspended, p.LastKnown())
}

func TestToggleRoundTrip(t *testing.T) {
	api := &fakeChatAPI{t: t}
	p := NewPresence(api, zerolog.Nop())

	state, err := p.Toggle()
	require.NoError(t, err)
	assert.Equal(t, StateSuspended, state)
	assert.True(t, api.disconnected)

	state, err = p.Toggle()
	require.NoError(t, err)
	assert.Equal(t, StateConnected, state)
	assert.False(t, api.disconnected)
}

func TestToggleSurfacesTransportErrors(t *testing.T) {
	api := &fakeChatAPI{t: t, err: lcu.ErrAuxUnavailable}
	p := NewPresence(api, zerolog.Nop())

	_, err := p.Toggle()
	assert.ErrorIs(t, err, lcu.ErrAuxUnavailable)
	assert.Equal(t, StateConnected, p.LastKnown(), "failed toggle leaves the cached belief alone")
}
