// Package lobby collects teammate identities from the current champ-select
// lobby and composes a pregame lookup URL for them.
package lobby

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"draftpilot/internal/lcu"
)

const (
	pregameBaseURL        = "https://porofessor.gg/pregame"
	defaultFallbackRegion = "br1"
)

// Client is the slice of the LCU client the collector needs. Hidden-name
// lobbies require the auxiliary Riot client API.
type Client interface {
	Request(method, path string, body any) (*lcu.Response, error)
	RequestAux(method, path string, body any) (*lcu.Response, error)
}

// Result is a collected lobby. Players hold "name#tag" strings.
type Result struct {
	Players []string
	Region  string
	Ranked  bool
	URL     string
}

// Collector is a one-shot lobby reveal routine. It never raises towards the
// shell: an unusable lobby simply yields no result.
type Collector struct {
	client         Client
	log            zerolog.Logger
	fallbackRegion string
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithFallbackRegion overrides the region used when the locale endpoint is
// unreachable.
func WithFallbackRegion(region string) CollectorOption {
	return func(c *Collector) { c.fallbackRegion = region }
}

// NewCollector creates a Collector.
func NewCollector(client Client, log zerolog.Logger, opts ...CollectorOption) *Collector {
	c := &Collector{
		client:         client,
		log:            log.With().Str("component", "lobby").Logger(),
		fallbackRegion: defaultFallbackRegion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect gathers the current lobby. Returns nil when not in champion
// select, when no teammate could be identified, or when no region could be
// determined.
func (c *Collector) Collect() *Result {
	resp, err := c.client.Request(http.MethodGet, "/lol-champ-select/v1/session", nil)
	if err != nil || !resp.OK() || strings.Contains(resp.Text(), "RPC_ERROR") {
		c.log.Warn().Msg("not in champion select")
		return nil
	}

	var session lcu.ChampSelectSession
	if err := resp.DecodeJSON(&session); err != nil {
		c.log.Warn().Err(err).Msg("unparseable session payload")
		return nil
	}

	ranked := hiddenNames(&session)
	var players []string
	if ranked {
		players = c.chatParticipants()
	} else {
		players = c.summonerProfiles(&session)
	}
	if len(players) == 0 {
		c.log.Warn().Msg("no players found in lobby")
		return nil
	}

	region := c.region()
	if region == "" {
		return nil
	}

	escaped := make([]string, len(players))
	for i, p := range players {
		escaped[i] = url.PathEscape(p)
	}

	c.log.Info().Int("players", len(players)).Str("region", region).Bool("ranked", ranked).Msg("lobby collected")
	return &Result{
		Players: players,
		Region:  region,
		Ranked:  ranked,
		URL:     fmt.Sprintf("%s/%s/%s", pregameBaseURL, region, strings.Join(escaped, ",")),
	}
}

// hiddenNames reports whether any teammate's name visibility is HIDDEN,
// which is how ranked lobbies present themselves.
func hiddenNames(session *lcu.ChampSelectSession) bool {
	for _, player := range session.MyTeam {
		if player.NameVisibilityType == "HIDDEN" {
			return true
		}
	}
	return false
}

// summonerProfiles resolves teammates through their summoner profiles.
// Failures are per-teammate: partial results are acceptable.
func (c *Collector) summonerProfiles(session *lcu.ChampSelectSession) []string {
	var players []string
	for _, player := range session.MyTeam {
		if player.SummonerID <= 0 {
			continue
		}

		resp, err := c.client.Request(http.MethodGet, fmt.Sprintf("/lol-summoner/v1/summoners/%d", player.SummonerID), nil)
		if err != nil || !resp.OK() {
			c.log.Warn().Int64("summonerId", player.SummonerID).Msg("summoner profile fetch failed")
			continue
		}

		var summoner lcu.Summoner
		if err := resp.DecodeJSON(&summoner); err != nil {
			c.log.Warn().Int64("summonerId", player.SummonerID).Err(err).Msg("unparseable summoner profile")
			continue
		}
		if summoner.GameName == "" || summoner.TagLine == "" {
			continue
		}
		players = append(players, summoner.GameName+"#"+summoner.TagLine)
	}
	return players
}

// chatParticipants resolves teammates through the auxiliary chat API, the
// only identity source once profile names are hidden.
func (c *Collector) chatParticipants() []string {
	resp, err := c.client.RequestAux(http.MethodGet, "/chat/v5/participants", nil)
	if err != nil || !resp.OK() {
		c.log.Warn().Err(err).Msg("chat participants fetch failed")
		return nil
	}

	var data lcu.ChatParticipants
	if err := resp.DecodeJSON(&data); err != nil {
		c.log.Warn().Err(err).Msg("unparseable participants payload")
		return nil
	}

	var players []string
	for _, participant := range data.Participants {
		if !strings.Contains(participant.CID, "champ-select") {
			continue
		}
		if participant.GameName == "" || participant.GameTag == "" {
			continue
		}
		players = append(players, participant.GameName+"#"+participant.GameTag)
	}
	return players
}

// region resolves the player's region, defaulting rather than failing.
func (c *Collector) region() string {
	resp, err := c.client.Request(http.MethodGet, "/riotclient/region-locale", nil)
	if err == nil && resp.OK() {
		var locale lcu.RegionLocale
		if err := resp.DecodeJSON(&locale); err == nil && locale.WebRegion != "" {
			return locale.WebRegion
		}
	}
	c.log.Info().Str("region", c.fallbackRegion).Msg("using fallback region")
	return c.fallbackRegion
}
