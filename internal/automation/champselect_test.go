package automation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftpilot/internal/champions"
	"draftpilot/internal/lcu"
)

// fakeResolver is a static catalog with a settable ban list.
type fakeResolver struct {
	catalog map[string]int
	banned  map[int]bool
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		catalog: map[string]int{
			"ahri":  103,
			"akali": 84,
			"yasuo": 157,
		},
		banned: map[int]bool{},
	}
}

func (f *fakeResolver) Resolve(name string) int {
	if id, ok := f.catalog[strings.ToLower(name)]; ok {
		return id
	}
	return champions.NotFound
}

func (f *fakeResolver) IsBanned(id int) bool { return f.banned[id] }

func (f *fakeResolver) IDs() []int {
	return []int{103, 84, 157} // sorted-name order: ahri, akali, yasuo
}

func (f *fakeResolver) Len() int      { return len(f.catalog) }
func (f *fakeResolver) Refresh() bool { return true }

// sessionRequester serves one champ-select session payload and records
// PATCH calls.
type sessionRequester struct {
	t           *testing.T
	session     *lcu.ChampSelectSession
	sessionResp *lcu.Response // overrides session when set
	err         error
	patches     []string
	patchStatus int
}

func newSessionRequester(t *testing.T) *sessionRequester {
	return &sessionRequester{t: t, patchStatus: http.StatusNoContent}
}

func (s *sessionRequester) Request(method, path string, body any) (*lcu.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	if method == http.MethodPatch {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		s.patches = append(s.patches, fmt.Sprintf("%s %s", path, payload))
		return &lcu.Response{Status: s.patchStatus}, nil
	}
	if s.sessionResp != nil {
		return s.sessionResp, nil
	}
	payload, err := json.Marshal(s.session)
	require.NoError(s.t, err)
	return &lcu.Response{Status: http.StatusOK, Body: payload}, nil
}

func pickSession(gameID int64, cell int, actions ...lcu.ChampSelectAction) *lcu.ChampSelectSession {
	return &lcu.ChampSelectSession{
		GameID:            gameID,
		LocalPlayerCellID: &cell,
		Actions:           [][]lcu.ChampSelectAction{actions},
	}
}

func newTestPoller(req Requester, resolver ChampionResolver, pick *PickIntent, ban *BanIntent) *ChampSelectPoller {
	return NewChampSelectPoller(req, resolver, pick, ban, zerolog.Nop())
}

func enabledPick(champion string) *PickIntent {
	p := NewPickIntent()
	p.SetChampion(champion)
	p.SetEnabled(true)
	return p
}

func enabledBan(champion string) *BanIntent {
	b := NewBanIntent()
	b.SetChampion(champion)
	b.SetEnabled(true)
	return b
}

func TestChampSelectLocksPickOnce(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	for i := 0; i < 5; i++ {
		_, ok := p.tick()
		require.True(t, ok)
	}

	require.Len(t, req.patches, 1, "one commit per action per session")
	assert.Equal(t, `/lol-champ-select/v1/session/actions/42 {"championId":103,"completed":true}`, req.patches[0])
}

func TestChampSelectIgnoresForeignActions(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 7, ActorCellID: 4, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	assert.Empty(t, req.patches)
}

func TestChampSelectDisabledIntentDoesNothing(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	pick := NewPickIntent()
	pick.SetChampion("ahri")

	p := newTestPoller(req, newFakeResolver(), pick, NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	assert.Empty(t, req.patches)
}

func TestChampSelectSessionBoundaryRearmsActions(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	require.Len(t, req.patches, 1)

	// Between sessions the endpoint reports an error body.
	req.sessionResp = &lcu.Response{Status: http.StatusOK, Body: []byte(`{"errorCode":"RPC_ERROR","message":"no active delegate"}`)}
	_, ok = p.tick()
	require.True(t, ok)

	// A new session reuses action id 42; it must be acted on again.
	req.sessionResp = nil
	req.session = pickSession(1002, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)
	_, ok = p.tick()
	require.True(t, ok)
	assert.Len(t, req.patches, 2)
}

func TestChampSelectFingerprintChangeRearms(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	require.Len(t, req.patches, 1)

	// A different gameId with no observable gap still counts as a new session.
	req.session = pickSession(2002, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)
	_, ok = p.tick()
	require.True(t, ok)
	assert.Len(t, req.patches, 2)
}

func TestChampSelectBackupChain(t *testing.T) {
	resolver := newFakeResolver()
	resolver.banned[103] = true // primary banned

	pick := enabledPick("ahri")
	pick.SetBackup2("unknownname") // unresolvable, skipped
	pick.SetBackup3("yasuo")

	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 1, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, resolver, pick, NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)

	require.Len(t, req.patches, 1)
	assert.Contains(t, req.patches[0], `"championId":157`)
}

func TestChampSelectAllChoicesBannedLeavesAction(t *testing.T) {
	resolver := newFakeResolver()
	resolver.banned[103] = true
	resolver.banned[157] = true

	pick := enabledPick("ahri")
	pick.SetBackup3("yasuo")

	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 1, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, resolver, pick, NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	assert.Empty(t, req.patches, "nothing available, pick is left to the user")
}

func TestChampSelectRandomPickSkipsBans(t *testing.T) {
	resolver := newFakeResolver()
	resolver.banned[103] = true
	resolver.banned[84] = true

	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 1, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := NewChampSelectPoller(req, resolver, enabledPick(ChoiceRandom), NewBanIntent(), zerolog.Nop(),
		WithRandInt(func(n int) int {
			require.Equal(t, 1, n, "only the unbanned champion is eligible")
			return 0
		}),
	)
	_, ok := p.tick()
	require.True(t, ok)

	require.Len(t, req.patches, 1)
	assert.Contains(t, req.patches[0], `"championId":157`)
}

func TestChampSelectFailedCommitRetries(t *testing.T) {
	req := newSessionRequester(t)
	req.patchStatus = http.StatusInternalServerError
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, IsInProgress: true},
	)

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	require.Len(t, req.patches, 1)

	// The rejected action is still eligible on the next tick.
	req.patchStatus = http.StatusNoContent
	_, ok = p.tick()
	require.True(t, ok)
	require.Len(t, req.patches, 2)

	// Once confirmed, it stays processed.
	_, ok = p.tick()
	require.True(t, ok)
	assert.Len(t, req.patches, 2)
}

func TestChampSelectBanAction(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 9, ActorCellID: 2, Type: actionBan, IsInProgress: true},
	)

	p := newTestPoller(req, newFakeResolver(), NewPickIntent(), enabledBan("akali"))
	_, ok := p.tick()
	require.True(t, ok)

	require.Len(t, req.patches, 1)
	assert.Equal(t, `/lol-champ-select/v1/session/actions/9 {"championId":84,"completed":true}`, req.patches[0])
}

func TestChampSelectCompletedActionIsSkipped(t *testing.T) {
	req := newSessionRequester(t)
	req.session = pickSession(1001, 2,
		lcu.ChampSelectAction{ID: 42, ActorCellID: 2, Type: actionPick, Completed: true},
	)

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	_, ok := p.tick()
	require.True(t, ok)
	assert.Empty(t, req.patches)
}

func TestChampSelectMissingSeatWaits(t *testing.T) {
	req := newSessionRequester(t)
	req.session = &lcu.ChampSelectSession{GameID: 1001} // no localPlayerCellId yet

	p := newTestPoller(req, newFakeResolver(), enabledPick("ahri"), NewBanIntent())
	delay, ok := p.tick()
	require.True(t, ok)
	assert.Positive(t, delay)
	assert.Empty(t, req.patches)
}

func TestChampSelectErrorLimit(t *testing.T) {
	req := newSessionRequester(t)
	req.err = assert.AnError

	p := NewChampSelectPoller(req, newFakeResolver(), NewPickIntent(), NewBanIntent(), zerolog.Nop(),
		WithChampSelectErrorLimit(2))

	_, ok := p.tick()
	assert.True(t, ok)
	_, ok = p.tick()
	assert.False(t, ok)
}

func TestSessionFingerprint(t *testing.T) {
	a := pickSession(1001, 2, lcu.ChampSelectAction{ID: 1})
	b := pickSession(1001, 2, lcu.ChampSelectAction{ID: 1})
	c := pickSession(1002, 2, lcu.ChampSelectAction{ID: 1})

	assert.Equal(t, sessionFingerprint(a), sessionFingerprint(b))
	assert.NotEqual(t, sessionFingerprint(a), sessionFingerprint(c))
}
