package automation

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"draftpilot/internal/lcu"
)

const (
	searchStatePath = "/lol-lobby/v2/lobby/matchmaking/search-state"
	acceptPath      = "/lol-matchmaking/v1/ready-check/accept"
	declinePath     = "/lol-matchmaking/v1/ready-check/decline"

	stateFound = "Found"
)

// QueuePoller watches the matchmaking search state and fires a single accept
// command on each transition into Found. After too many consecutive transport
// errors it terminates itself and must be restarted by its owner.
type QueuePoller struct {
	client     Requester
	log        zerolog.Logger
	interval   time.Duration
	errorLimit int

	enabled atomic.Bool
	running atomic.Bool

	// owned by the poller goroutine
	lastState         string
	consecutiveErrors int

	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// QueueOption configures a QueuePoller.
type QueueOption func(*QueuePoller)

// WithQueueInterval overrides the poll interval.
func WithQueueInterval(d time.Duration) QueueOption {
	return func(p *QueuePoller) { p.interval = d }
}

// WithQueueErrorLimit overrides the consecutive-error shutdown threshold.
func WithQueueErrorLimit(n int) QueueOption {
	return func(p *QueuePoller) { p.errorLimit = n }
}

// NewQueuePoller creates a stopped, disabled poller.
func NewQueuePoller(client Requester, log zerolog.Logger, opts ...QueueOption) *QueuePoller {
	p := &QueuePoller{
		client:     client,
		log:        log.With().Str("component", "queue").Logger(),
		interval:   500 * time.Millisecond,
		errorLimit: 5,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetEnabled flips the automation flag. A disabled poller keeps looping but
// skips the search-state check, so re-enabling resumes promptly.
func (p *QueuePoller) SetEnabled(on bool) { p.enabled.Store(on) }

// Enabled reports the automation flag.
func (p *QueuePoller) Enabled() bool { return p.enabled.Load() }

// Toggle flips the automation flag and returns the new value.
func (p *QueuePoller) Toggle() bool { return toggle(&p.enabled) }

// Running reports whether the poll loop is alive.
func (p *QueuePoller) Running() bool { return p.running.Load() }

// Start launches the poll loop if it is not already running.
func (p *QueuePoller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return
	}
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})
	p.running.Store(true)
	p.lastState = ""
	p.consecutiveErrors = 0

	go p.run(p.stopChan, p.doneChan)
	p.log.Info().Msg("queue monitor started")
}

// Stop signals the loop and waits, bounded, for it to exit.
func (p *QueuePoller) Stop() {
	p.mu.Lock()
	stop, done := p.stopChan, p.doneChan
	p.mu.Unlock()

	if stop == nil || !p.running.Load() {
		return
	}
	select {
	case <-stop:
	default:
		close(stop)
	}
	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
	}
	p.log.Info().Msg("queue monitor stopped")
}

func (p *QueuePoller) run(stop, done chan struct{}) {
	defer func() {
		p.running.Store(false)
		close(done)
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !p.poll() {
				p.log.Error().Msg("too many consecutive errors, stopping queue monitor")
				return
			}
		}
	}
}

// poll runs one iteration. It reports false when the consecutive-error
// threshold has been reached and the loop should terminate.
func (p *QueuePoller) poll() bool {
	if !p.enabled.Load() {
		return true
	}

	resp, err := p.client.Request(http.MethodGet, searchStatePath, nil)
	if err != nil {
		p.log.Warn().Err(err).Msg("search-state fetch failed")
		return p.countError()
	}

	switch {
	case resp.OK():
		var state lcu.SearchState
		if err := resp.DecodeJSON(&state); err != nil {
			return p.countError()
		}
		if state.SearchState == stateFound && p.lastState != stateFound {
			p.log.Info().Msg("match found, accepting")
			p.Accept()
		}
		p.lastState = state.SearchState
		p.consecutiveErrors = 0
	case resp.Status == http.StatusNotFound:
		// Not in queue; reset so the next Found transition re-arms.
		p.lastState = ""
		p.consecutiveErrors = 0
	default:
		return p.countError()
	}
	return true
}

func (p *QueuePoller) countError() bool {
	p.consecutiveErrors++
	return p.consecutiveErrors < p.errorLimit
}

// Accept fires the ready-check accept command. Non-2xx is a soft failure: the
// next observed Found transition, if any, will try again.
func (p *QueuePoller) Accept() bool {
	return p.readyCheck(acceptPath, "accept")
}

// Decline fires the ready-check decline command.
func (p *QueuePoller) Decline() bool {
	return p.readyCheck(declinePath, "decline")
}

func (p *QueuePoller) readyCheck(path, verb string) bool {
	resp, err := p.client.Request(http.MethodPost, path, nil)
	if err != nil {
		p.log.Error().Err(err).Msgf("ready-check %s failed", verb)
		return false
	}
	if !resp.OK() {
		p.log.Warn().Int("status", resp.Status).Msgf("ready-check %s rejected", verb)
		return false
	}
	p.log.Info().Msgf("ready-check %s sent", verb)
	return true
}
