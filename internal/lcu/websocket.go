package lcu

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// EventType represents LCU WebSocket opcodes (WAMP subset).
type EventType int

const (
	EventTypeSubscribe   EventType = 5
	EventTypeUnsubscribe EventType = 6
	EventTypeEvent       EventType = 8
)

const (
	gameflowEvent    = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"
	champSelectEvent = "OnJsonApiEvent_lol-champ-select_v1_session"
)

// PhaseHandler receives gameflow phase changes ("Lobby", "ChampSelect", ...).
type PhaseHandler func(phase string)

// ChampSelectLifecycleHandler receives champ-select enter/exit notifications.
type ChampSelectLifecycleHandler func(inChampSelect bool)

// EventStream subscribes to the client's WebSocket event bus. It only feeds
// status displays; the automation pollers never depend on it.
type EventStream struct {
	log zerolog.Logger

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
	stopChan    chan struct{}

	onPhase       PhaseHandler
	onChampSelect ChampSelectLifecycleHandler
}

// NewEventStream creates a disconnected event stream.
func NewEventStream(log zerolog.Logger) *EventStream {
	return &EventStream{
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// OnPhase sets the gameflow phase callback.
func (s *EventStream) OnPhase(h PhaseHandler) {
	s.onPhase = h
}

// OnChampSelect sets the champ-select lifecycle callback.
func (s *EventStream) OnChampSelect(h ChampSelectLifecycleHandler) {
	s.onChampSelect = h
}

// Connect dials the client's WebSocket and subscribes to the events of
// interest.
func (s *EventStream) Connect(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return nil
	}

	dialer := websocket.Dialer{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	header := http.Header{}
	header.Set("Authorization", creds.AuthHeader())

	conn, _, err := dialer.Dial("wss://127.0.0.1:"+creds.Port, header)
	if err != nil {
		return fmt.Errorf("connect to lcu websocket: %w", err)
	}

	s.conn = conn
	s.isConnected = true

	for _, event := range []string{gameflowEvent, champSelectEvent} {
		if err := conn.WriteJSON([]any{EventTypeSubscribe, event}); err != nil {
			conn.Close()
			s.conn = nil
			s.isConnected = false
			return fmt.Errorf("subscribe to %s: %w", event, err)
		}
	}

	// The listener captures the stop channel and its own connection;
	// Disconnect replaces both fields, so a listener from a previous cycle
	// must never touch the current ones.
	go s.listen(conn, s.stopChan)
	return nil
}

func (s *EventStream) listen(conn *websocket.Conn, stop chan struct{}) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
			s.isConnected = false
		}
		s.mu.Unlock()
	}()

	for {
		select {
		case <-stop:
			return
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.handleMessage(message)
		}
	}
}

func (s *EventStream) handleMessage(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return
	}

	var eventType EventType
	if err := json.Unmarshal(raw[0], &eventType); err != nil || eventType != EventTypeEvent {
		return
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil {
		return
	}

	var payload struct {
		EventType string          `json:"eventType"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw[2], &payload); err != nil {
		return
	}

	switch eventName {
	case gameflowEvent:
		if s.onPhase == nil {
			return
		}
		var phase string
		if err := json.Unmarshal(payload.Data, &phase); err != nil {
			s.log.Debug().Err(err).Msg("unparseable gameflow event")
			return
		}
		s.onPhase(phase)
	case champSelectEvent:
		if s.onChampSelect == nil {
			return
		}
		switch payload.EventType {
		case "Create", "Update":
			s.onChampSelect(true)
		case "Delete":
			s.onChampSelect(false)
		}
	}
}

// Disconnect closes the connection and resets the stream for reuse.
func (s *EventStream) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.stopChan)
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.isConnected = false
	s.stopChan = make(chan struct{})
}

// IsConnected reports whether the stream is live.
func (s *EventStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isConnected
}
