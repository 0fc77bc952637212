package main

import "github.com/pkg/browser"

// LobbyResult is the frontend view of a collected lobby.
type LobbyResult struct {
	OK      bool     `json:"ok"`
	Reason  string   `json:"reason,omitempty"`
	Players []string `json:"players,omitempty"`
	Region  string   `json:"region,omitempty"`
	Ranked  bool     `json:"ranked"`
	URL     string   `json:"url,omitempty"`
}

// RevealLobby collects the current lobby and opens the pregame page in the
// default browser.
func (a *App) RevealLobby() LobbyResult {
	result := a.lobby.Collect()
	if result == nil {
		return LobbyResult{OK: false, Reason: "no lobby to reveal, join champion select first"}
	}

	if err := browser.OpenURL(result.URL); err != nil {
		a.log.Warn().Err(err).Msg("failed to open browser")
	}
	return LobbyResult{
		OK:      true,
		Players: result.Players,
		Region:  result.Region,
		Ranked:  result.Ranked,
		URL:     result.URL,
	}
}

// LobbyInfo collects the current lobby without opening anything.
func (a *App) LobbyInfo() LobbyResult {
	result := a.lobby.Collect()
	if result == nil {
		return LobbyResult{OK: false, Reason: "no lobby to reveal, join champion select first"}
	}
	return LobbyResult{
		OK:      true,
		Players: result.Players,
		Region:  result.Region,
		Ranked:  result.Ranked,
		URL:     result.URL,
	}
}
