package automation

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"draftpilot/internal/champions"
	"draftpilot/internal/lcu"
)

const (
	champSelectSessionPath = "/lol-champ-select/v1/session"
	champSelectActionPath  = "/lol-champ-select/v1/session/actions/%d"

	actionPick = "pick"
	actionBan  = "ban"
)

// ChampSelectPoller watches the champ-select session and commits the
// configured pick and ban for the local player's in-progress actions, each
// action at most once per session.
type ChampSelectPoller struct {
	client   Requester
	resolver ChampionResolver
	pick     *PickIntent
	ban      *BanIntent
	log      zerolog.Logger

	sessionInterval time.Duration
	idleInterval    time.Duration
	errorLimit      int
	randInt         func(n int) int

	running atomic.Bool

	// owned by the poller goroutine
	processed         map[int]struct{}
	fingerprint       uint64
	hasFingerprint    bool
	consecutiveErrors int

	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// ChampSelectOption configures a ChampSelectPoller.
type ChampSelectOption func(*ChampSelectPoller)

// WithChampSelectIntervals overrides the in-session and idle poll intervals.
func WithChampSelectIntervals(session, idle time.Duration) ChampSelectOption {
	return func(p *ChampSelectPoller) {
		p.sessionInterval = session
		p.idleInterval = idle
	}
}

// WithChampSelectErrorLimit overrides the consecutive-error shutdown
// threshold.
func WithChampSelectErrorLimit(n int) ChampSelectOption {
	return func(p *ChampSelectPoller) { p.errorLimit = n }
}

// WithRandInt overrides the uniform source used for Random picks.
func WithRandInt(f func(n int) int) ChampSelectOption {
	return func(p *ChampSelectPoller) { p.randInt = f }
}

// NewChampSelectPoller creates a stopped poller around the given intents.
func NewChampSelectPoller(client Requester, resolver ChampionResolver, pick *PickIntent, ban *BanIntent, log zerolog.Logger, opts ...ChampSelectOption) *ChampSelectPoller {
	p := &ChampSelectPoller{
		client:          client,
		resolver:        resolver,
		pick:            pick,
		ban:             ban,
		log:             log.With().Str("component", "champselect").Logger(),
		sessionInterval: 200 * time.Millisecond,
		idleInterval:    500 * time.Millisecond,
		errorLimit:      10,
		randInt:         rand.IntN,
		processed:       make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Running reports whether the poll loop is alive.
func (p *ChampSelectPoller) Running() bool { return p.running.Load() }

// Start launches the poll loop if it is not already running.
func (p *ChampSelectPoller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return
	}
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})
	p.running.Store(true)
	p.resetSession()
	p.consecutiveErrors = 0

	go p.run(p.stopChan, p.doneChan)
	p.log.Info().Msg("champ select monitor started")
}

// Stop signals the loop and waits, bounded, for it to exit.
func (p *ChampSelectPoller) Stop() {
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
	p.log.Info().Msg("champ select monitor stopped")
}

func (p *ChampSelectPoller) run(stop, done chan struct{}) {
	defer func() {
		p.running.Store(false)
		close(done)
	}()

	for {
		delay, ok := p.tick()
		if !ok {
			p.log.Error().Msg("too many consecutive errors, stopping champ select monitor")
			return
		}
		select {
		case <-stop:
			return
		case <-time.After(delay):
		}
	}
}

// tick runs one iteration and returns the delay before the next one. ok is
// false once the consecutive-error threshold is reached.
func (p *ChampSelectPoller) tick() (delay time.Duration, ok bool) {
	if p.resolver.Len() == 0 {
		p.resolver.Refresh()
	}

	resp, err := p.client.Request(http.MethodGet, champSelectSessionPath, nil)
	if err != nil {
		p.log.Warn().Err(err).Msg("session fetch failed")
		return p.idleInterval, p.countError()
	}

	if !resp.OK() || strings.Contains(resp.Text(), "RPC_ERROR") {
		// Not in champion select.
		p.resetSession()
		p.consecutiveErrors = 0
		return p.idleInterval, true
	}

	var session lcu.ChampSelectSession
	if err := resp.DecodeJSON(&session); err != nil {
		p.log.Warn().Err(err).Msg("unparseable session payload")
		return p.idleInterval, p.countError()
	}

	if session.LocalPlayerCellID == nil {
		// Session mid-transition, seat not assigned yet.
		return 300 * time.Millisecond, true
	}
	cell := *session.LocalPlayerCellID

	// A fingerprint change means a new champ-select instance started without
	// an observable not-in-session gap; previously acted ids must re-arm.
	if fp := sessionFingerprint(&session); !p.hasFingerprint || fp != p.fingerprint {
		p.processed = make(map[int]struct{})
		p.fingerprint = fp
		p.hasFingerprint = true
	}

	for _, round := range session.Actions {
		for _, action := range round {
			if action.ActorCellID != cell {
				continue
			}
			if _, done := p.processed[action.ID]; done {
				continue
			}
			if action.Completed {
				p.processed[action.ID] = struct{}{}
				continue
			}

			switch {
			case action.Type == actionPick && action.IsInProgress && p.pick.Enabled():
				p.handlePick(action.ID)
			case action.Type == actionBan && action.IsInProgress && p.ban.Enabled():
				p.handleBan(action.ID)
			}
		}
	}

	p.consecutiveErrors = 0
	return p.sessionInterval, true
}

func (p *ChampSelectPoller) countError() bool {
	p.consecutiveErrors++
	return p.consecutiveErrors < p.errorLimit
}

func (p *ChampSelectPoller) resetSession() {
	p.processed = make(map[int]struct{})
	p.fingerprint = 0
	p.hasFingerprint = false
}

func (p *ChampSelectPoller) handlePick(actionID int) {
	championID := p.availableChampion()
	if championID == champions.NotFound {
		return
	}
	if p.commit(actionID, championID) {
		p.log.Info().Int("championId", championID).Msg("champion locked")
	}
}

func (p *ChampSelectPoller) handleBan(actionID int) {
	// No backup chain for bans: banning an already-banned champion is a
	// harmless no-op client side.
	snap := p.ban.Snapshot()
	if snap.Champion == ChoiceNone {
		return
	}
	championID := p.resolver.Resolve(snap.Champion)
	if championID == champions.NotFound {
		return
	}
	if p.commit(actionID, championID) {
		p.log.Info().Str("champion", snap.Champion).Msg("champion banned")
	}
}

// commit PATCHes the action and records it as processed only on a confirmed
// 2xx. A failed commit stays eligible for retry on a later tick while the
// action remains in progress.
func (p *ChampSelectPoller) commit(actionID, championID int) bool {
	resp, err := p.client.Request(
		http.MethodPatch,
		fmt.Sprintf(champSelectActionPath, actionID),
		map[string]any{"completed": true, "championId": championID},
	)
	if err != nil {
		p.log.Error().Err(err).Int("actionId", actionID).Msg("action commit failed")
		return false
	}
	if !resp.OK() {
		p.log.Warn().Int("status", resp.Status).Int("actionId", actionID).Msg("action commit rejected")
		return false
	}
	p.processed[actionID] = struct{}{}
	return true
}

// availableChampion walks the configured backup chain: primary, then backup
// slots, each skipped when unresolvable or already banned. Returns
// champions.NotFound when nothing is available, in which case the action is
// left for the user.
func (p *ChampSelectPoller) availableChampion() int {
	snap := p.pick.Snapshot()

	if snap.Champion == ChoiceRandom {
		var available []int
		for _, id := range p.resolver.IDs() {
			if !p.resolver.IsBanned(id) {
				available = append(available, id)
			}
		}
		if len(available) == 0 {
			return champions.NotFound
		}
		return available[p.randInt(len(available))]
	}

	for i, name := range []string{snap.Champion, snap.Backup2, snap.Backup3} {
		if name == ChoiceNone || name == "" {
			continue
		}
		id := p.resolver.Resolve(name)
		if id == champions.NotFound {
			continue
		}
		if p.resolver.IsBanned(id) {
			p.log.Warn().Str("champion", name).Int("choice", i+1).Msg("choice is banned, trying next")
			continue
		}
		return id
	}

	p.log.Warn().Msg("no configured champion available, pick left to the user")
	return champions.NotFound
}

// sessionFingerprint derives a stable identity for one champ-select instance.
// The session payload carries no explicit session id; gameId plus the local
// seat and the first action id is stable within a session and differs across
// them.
func sessionFingerprint(s *lcu.ChampSelectSession) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)

	binary.LittleEndian.PutUint64(buf, uint64(s.GameID))
	h.Write(buf)
	if s.LocalPlayerCellID != nil {
		binary.LittleEndian.PutUint64(buf, uint64(int64(*s.LocalPlayerCellID)))
		h.Write(buf)
	}
	if len(s.Actions) > 0 && len(s.Actions[0]) > 0 {
		binary.LittleEndian.PutUint64(buf, uint64(int64(s.Actions[0][0].ID)))
		h.Write(buf)
	}
	return h.Sum64()
}
