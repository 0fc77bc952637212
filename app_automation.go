package main

import (
	"strings"

	"draftpilot/internal/automation"
	"draftpilot/internal/champions"
	"draftpilot/internal/settings"
)

// Words that clear a champion slot instead of resolving as a name.
var disableWords = map[string]bool{
	"99":      true,
	"disable": true,
	"off":     true,
	"none":    true,
}

// ChoiceResult is the outcome of a champion slot update.
type ChoiceResult struct {
	OK          bool     `json:"ok"`
	Champion    string   `json:"champion"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// resolveChoice validates user input for a champion slot. Returns the
// canonical slot value on success.
func (a *App) resolveChoice(name string, allowRandom bool) (string, *ChoiceResult) {
	trimmed := strings.ToLower(strings.TrimSpace(name))

	if disableWords[trimmed] {
		return automation.ChoiceNone, nil
	}

	if trimmed == "random" {
		if !allowRandom {
			return "", &ChoiceResult{OK: false, Reason: "random is only supported for picks"}
		}
		if a.resolver.Len() == 0 && !a.resolver.Refresh() {
			return "", &ChoiceResult{OK: false, Reason: "champion catalog not loaded yet"}
		}
		return automation.ChoiceRandom, nil
	}

	id := a.resolver.Resolve(name)
	if id == champions.NotFound {
		return "", &ChoiceResult{
			OK:          false,
			Reason:      "unknown champion: " + name,
			Suggestions: a.resolver.Suggest(name, 5),
		}
	}

	if canonical, ok := a.resolver.CanonicalName(name); ok {
		return canonical, nil
	}
	return trimmed, nil
}

// SetPickChampion updates the primary pick slot. Disable words clear the slot
// and turn the pick lock off.
func (a *App) SetPickChampion(name string) ChoiceResult {
	choice, fail := a.resolveChoice(name, true)
	if fail != nil {
		return *fail
	}

	a.pick.SetChampion(choice)
	a.persist(settings.KeyPickChampion, choice)
	if choice == automation.ChoiceNone {
		a.pick.SetEnabled(false)
		a.persistBool(settings.KeyPickEnabled, false)
	} else {
		a.pick.SetEnabled(true)
		a.persistBool(settings.KeyPickEnabled, true)
		a.ensureChampSelect()
	}
	return ChoiceResult{OK: true, Champion: choice}
}

// SetPickBackup updates backup slot 2 or 3.
func (a *App) SetPickBackup(slot int, name string) ChoiceResult {
	if slot != 2 && slot != 3 {
		return ChoiceResult{OK: false, Reason: "backup slot must be 2 or 3"}
	}

	choice, fail := a.resolveChoice(name, false)
	if fail != nil {
		return *fail
	}

	if slot == 2 {
		a.pick.SetBackup2(choice)
		a.persist(settings.KeyPickBackup2, choice)
	} else {
		a.pick.SetBackup3(choice)
		a.persist(settings.KeyPickBackup3, choice)
	}
	return ChoiceResult{OK: true, Champion: choice}
}

// SetBanChampion updates the ban slot. Disable words clear the slot and turn
// the ban lock off.
func (a *App) SetBanChampion(name string) ChoiceResult {
	choice, fail := a.resolveChoice(name, false)
	if fail != nil {
		return *fail
	}

	a.ban.SetChampion(choice)
	a.persist(settings.KeyBanChampion, choice)
	if choice == automation.ChoiceNone {
		a.ban.SetEnabled(false)
		a.persistBool(settings.KeyBanEnabled, false)
	} else {
		a.ban.SetEnabled(true)
		a.persistBool(settings.KeyBanEnabled, true)
		a.ensureChampSelect()
	}
	return ChoiceResult{OK: true, Champion: choice}
}

// TogglePickLock flips the pick lock and returns the new state.
func (a *App) TogglePickLock() bool {
	on := a.pick.Toggle()
	a.persistBool(settings.KeyPickEnabled, on)
	if on {
		a.ensureChampSelect()
	}
	return on
}

// ToggleBanLock flips the ban lock and returns the new state.
func (a *App) ToggleBanLock() bool {
	on := a.ban.Toggle()
	a.persistBool(settings.KeyBanEnabled, on)
	if on {
		a.ensureChampSelect()
	}
	return on
}

// ToggleQueueAccept flips queue auto-accept and returns the new state.
func (a *App) ToggleQueueAccept() bool {
	on := a.queue.Toggle()
	a.persistBool(settings.KeyQueueEnabled, on)
	if on && !a.queue.Running() && a.client.Connected() {
		a.queue.Start()
	}
	return on
}

// DeclineMatch declines the current ready check.
func (a *App) DeclineMatch() bool {
	return a.queue.Decline()
}

// RefreshChampions rebuilds the champion catalog.
func (a *App) RefreshChampions() bool {
	return a.resolver.Refresh()
}

// SuggestChampions returns name completions for partial input.
func (a *App) SuggestChampions(partial string) []string {
	return a.resolver.Suggest(partial, 8)
}

// AutomationStatus snapshots every automation flag for the frontend.
func (a *App) AutomationStatus() map[string]interface{} {
	pick := a.pick.Snapshot()
	ban := a.ban.Snapshot()
	return map[string]interface{}{
		"queueEnabled": a.queue.Enabled(),
		"queueRunning": a.queue.Running(),
		"pickEnabled":  pick.Enabled,
		"pickChampion": pick.Champion,
		"pickBackup2":  pick.Backup2,
		"pickBackup3":  pick.Backup3,
		"banEnabled":   ban.Enabled,
		"banChampion":  ban.Champion,
		"running":      a.champSelect.Running(),
	}
}

// ensureChampSelect restarts the champ-select monitor if it stopped itself
// after an error streak.
func (a *App) ensureChampSelect() {
	if !a.champSelect.Running() && a.client.Connected() {
		a.champSelect.Start()
	}
}
