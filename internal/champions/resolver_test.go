package champions

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftpilot/internal/lcu"
)

// fakeRequester serves canned responses keyed by path.
type fakeRequester struct {
	responses map[string]*lcu.Response
	err       error
	calls     []string
}

func (f *fakeRequester) Request(method, path string, body any) (*lcu.Response, error) {
	f.calls = append(f.calls, method+" "+path)
	if f.err != nil {
		return nil, f.err
	}
	if resp, ok := f.responses[path]; ok {
		return resp, nil
	}
	return &lcu.Response{Status: http.StatusNotFound, Body: []byte(`{}`)}, nil
}

func jsonResponse(t *testing.T, v any) *lcu.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return &lcu.Response{Status: http.StatusOK, Body: body}
}

func gridResponse(t *testing.T) *lcu.Response {
	return jsonResponse(t, []lcu.GridChampion{
		{ID: 103, Name: "Ahri"},
		{ID: 84, Name: "Akali"},
		{ID: 21, Name: "Miss Fortune"},
		{ID: 11, Name: "Master Yi"},
		{ID: 157, Name: "Yasuo"},
	})
}

func newTestResolver(t *testing.T) (*Resolver, *fakeRequester) {
	req := &fakeRequester{responses: map[string]*lcu.Response{
		"/lol-champ-select/v1/all-grid-champions": gridResponse(t),
	}}
	r := NewResolver(req, zerolog.Nop())
	require.True(t, r.Refresh())
	return r, req
}

func TestResolveExact(t *testing.T) {
	r, _ := newTestResolver(t)

	assert.Equal(t, 103, r.Resolve("Ahri"))
	assert.Equal(t, 103, r.Resolve("  AHRI  "))
	assert.Equal(t, 21, r.Resolve("miss fortune"))
}

func TestResolvePartial(t *testing.T) {
	r, _ := newTestResolver(t)

	// substring of a catalog name
	assert.Equal(t, 21, r.Resolve("fortune"))
	assert.Equal(t, 11, r.Resolve("master"))
	// catalog name contained in the input
	assert.Equal(t, 157, r.Resolve("yasuo mid"))
}

func TestResolveMiss(t *testing.T) {
	r, _ := newTestResolver(t)

	assert.Equal(t, NotFound, r.Resolve("teemo"))
	assert.Equal(t, NotFound, r.Resolve(""))
	assert.Equal(t, NotFound, r.Resolve("   "))
}

func TestResolveAmbiguousIsDeterministic(t *testing.T) {
	r, _ := newTestResolver(t)

	// "a" is a substring of several names; sorted order makes "ahri" win
	// every time.
	first := r.Resolve("a")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve("a"))
	}
	assert.Equal(t, 103, first)
}

func TestRefreshFallsBackToInventory(t *testing.T) {
	req := &fakeRequester{responses: map[string]*lcu.Response{
		"/lol-champions/v1/inventories/local-player/champions": jsonResponse(t, []lcu.GridChampion{
			{ID: -1, Name: "None"}, // placeholder record, must be dropped
			{ID: 103, Name: "Ahri"},
		}),
	}}
	r := NewResolver(req, zerolog.Nop())

	require.True(t, r.Refresh())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 103, r.Resolve("ahri"))
	assert.Equal(t, NotFound, r.Resolve("none"))
}

func TestRefreshReplacesCatalogWholesale(t *testing.T) {
	r, req := newTestResolver(t)
	require.Equal(t, 103, r.Resolve("ahri"))

	req.responses["/lol-champ-select/v1/all-grid-champions"] = jsonResponse(t, []lcu.GridChampion{
		{ID: 17, Name: "Teemo"},
	})
	require.True(t, r.Refresh())

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 17, r.Resolve("teemo"))
	assert.Equal(t, NotFound, r.Resolve("ahri"), "entries absent from the new source must not survive")
}

func TestRefreshFailureKeepsCatalog(t *testing.T) {
	r, req := newTestResolver(t)
	require.Equal(t, 5, r.Len())

	req.err = errors.New("connection refused")
	assert.False(t, r.Refresh())
	assert.Equal(t, 5, r.Len(), "failed refresh must not clear the catalog")
	assert.Equal(t, 103, r.Resolve("ahri"))
}

func TestSuggest(t *testing.T) {
	r, _ := newTestResolver(t)

	suggestions := r.Suggest("mis", 5)
	require.NotEmpty(t, suggestions)
	assert.Contains(t, suggestions, "Miss Fortune")

	assert.Empty(t, r.Suggest("", 5))
	assert.Len(t, r.Suggest("a", 2), 2)
}

func TestCanonicalName(t *testing.T) {
	r, _ := newTestResolver(t)

	name, ok := r.CanonicalName("  Miss Fortune ")
	assert.True(t, ok)
	assert.Equal(t, "miss fortune", name)

	_, ok = r.CanonicalName("teemo")
	assert.False(t, ok)
}

func TestIDsFollowSortedNames(t *testing.T) {
	r, _ := newTestResolver(t)

	// ahri, akali, master yi, miss fortune, yasuo
	assert.Equal(t, []int{103, 84, 11, 21, 157}, r.IDs())
}

func TestIsBanned(t *testing.T) {
	cell := 0
	session := lcu.ChampSelectSession{
		LocalPlayerCellID: &cell,
		Actions: [][]lcu.ChampSelectAction{{
			{ID: 1, ActorCellID: 5, ChampionID: 157, Type: "ban", Completed: true},
			{ID: 2, ActorCellID: 6, ChampionID: 103, Type: "ban", Completed: false},
		}},
		Bans: lcu.ChampSelectBans{MyTeamBans: []int{84}},
	}

	req := &fakeRequester{responses: map[string]*lcu.Response{
		"/lol-champ-select/v1/all-grid-champions": gridResponse(t),
		"/lol-champ-select/v1/session":            jsonResponse(t, session),
	}}
	r := NewResolver(req, zerolog.Nop())

	assert.True(t, r.IsBanned(157), "completed ban action")
	assert.True(t, r.IsBanned(84), "team ban list")
	assert.False(t, r.IsBanned(103), "in-progress ban is not a ban")
	assert.False(t, r.IsBanned(21))
}

func TestIsBannedFailsOpen(t *testing.T) {
	req := &fakeRequester{err: errors.New("connection refused")}
	r := NewResolver(req, zerolog.Nop())

	assert.False(t, r.IsBanned(157))
}
