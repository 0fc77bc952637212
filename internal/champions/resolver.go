// Package champions maintains the champion name catalog and resolves
// user-typed names to the numeric identifiers the client API expects.
package champions

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"draftpilot/internal/lcu"
)

// NotFound is the identifier returned when a name resolves to nothing.
const NotFound = -1

// Requester is the slice of the LCU client the resolver needs.
type Requester interface {
	Request(method, path string, body any) (*lcu.Response, error)
}

// Resolver maps lowercase champion names to identifiers. The catalog is
// replaced wholesale on each successful refresh and owned exclusively by the
// resolver.
type Resolver struct {
	client Requester
	log    zerolog.Logger

	mu      sync.RWMutex
	catalog map[string]int
	names   []string // sorted, keeps partial matching deterministic
}

// NewResolver creates a resolver with an empty catalog. The catalog is
// populated lazily on the first Resolve call, or eagerly via Refresh.
func NewResolver(client Requester, log zerolog.Logger) *Resolver {
	return &Resolver{
		client:  client,
		log:     log,
		catalog: make(map[string]int),
	}
}

// Refresh rebuilds the catalog from the champion grid endpoint, falling back
// to the legacy inventory endpoint. Network failure degrades to the previous
// catalog and reports false, it never returns an error.
func (r *Resolver) Refresh() bool {
	resp, err := r.client.Request(http.MethodGet, "/lol-champ-select/v1/all-grid-champions", nil)
	if err == nil && resp.OK() {
		var champs []lcu.GridChampion
		if err := resp.DecodeJSON(&champs); err == nil {
			r.replace(champs, false)
			r.log.Info().Int("count", r.Len()).Msg("champion catalog loaded")
			return true
		}
	}

	// The inventory shape carries placeholder records with id -1.
	resp, err = r.client.Request(http.MethodGet, "/lol-champions/v1/inventories/local-player/champions", nil)
	if err == nil && resp.OK() {
		var champs []lcu.GridChampion
		if err := resp.DecodeJSON(&champs); err == nil {
			r.replace(champs, true)
			r.log.Info().Int("count", r.Len()).Msg("champion catalog loaded from inventory fallback")
			return true
		}
	}

	r.log.Warn().Msg("champion catalog refresh failed")
	return false
}

func (r *Resolver) replace(champs []lcu.GridChampion, filterInvalid bool) {
	catalog := make(map[string]int, len(champs))
	for _, c := range champs {
		if c.Name == "" || (filterInvalid && c.ID == NotFound) {
			continue
		}
		catalog[strings.ToLower(c.Name)] = c.ID
	}

	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	r.mu.Lock()
	r.catalog = catalog
	r.names = names
	r.mu.Unlock()
}

// Resolve maps a champion name to its identifier: exact lookup first, then
// substring containment in both directions, first match wins. Returns
// NotFound on miss.
func (r *Resolver) Resolve(name string) int {
	if r.Len() == 0 {
		r.Refresh()
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return NotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.catalog[name]; ok {
		return id
	}
	for _, candidate := range r.names {
		if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
			return r.catalog[candidate]
		}
	}
	return NotFound
}

var titleCaser = cases.Title(language.English)

// Suggest returns up to limit champion names close to the given partial
// input: fuzzy ranked matches first, then plain substring matches.
func (r *Resolver) Suggest(partial string, limit int) []string {
	partial = strings.ToLower(strings.TrimSpace(partial))

	r.mu.RLock()
	names := r.names
	r.mu.RUnlock()

	if partial == "" || len(names) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var suggestions []string
	add := func(name string) {
		if !seen[name] && len(suggestions) < limit {
			seen[name] = true
			suggestions = append(suggestions, titleCaser.String(name))
		}
	}

	for _, match := range fuzzy.Find(partial, names) {
		add(match.Str)
	}
	for _, name := range names {
		if strings.Contains(name, partial) {
			add(name)
		}
	}
	return suggestions
}

// CanonicalName returns the catalog's lowercase spelling of name, or false
// when the name does not resolve exactly.
func (r *Resolver) CanonicalName(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.catalog[name]
	return name, ok
}

// IDs returns all catalog identifiers.
func (r *Resolver) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.names))
	for _, name := range r.names {
		ids = append(ids, r.catalog[name])
	}
	return ids
}

// Len returns the catalog size.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.catalog)
}

// IsBanned reports whether the champion is already banned in the current
// champ-select session. Any transport or parse failure reads as not banned:
// the result only steers choice among options, it enforces nothing.
func (r *Resolver) IsBanned(id int) bool {
	resp, err := r.client.Request(http.MethodGet, "/lol-champ-select/v1/session", nil)
	if err != nil || !resp.OK() {
		return false
	}

	var session lcu.ChampSelectSession
	if err := resp.DecodeJSON(&session); err != nil {
		return false
	}

	for _, round := range session.Actions {
		for _, action := range round {
			if action.Type == "ban" && action.Completed && action.ChampionID == id {
				return true
			}
		}
	}
	for _, banned := range session.Bans.MyTeamBans {
		if banned == id {
			return true
		}
	}
	for _, banned := range session.Bans.TheirTeamBans {
		if banned == id {
			return true
		}
	}
	return false
}
