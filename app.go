package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"draftpilot/internal/automation"
	"draftpilot/internal/champions"
	"draftpilot/internal/chat"
	"draftpilot/internal/lcu"
	"draftpilot/internal/lobby"
	"draftpilot/internal/settings"
)

// App owns the LCU connection and all automation components and exposes
// their controls to the frontend.
type App struct {
	ctx context.Context
	log zerolog.Logger

	client      *lcu.Client
	events      *lcu.EventStream
	resolver    *champions.Resolver
	pick        *automation.PickIntent
	ban         *automation.BanIntent
	queue       *automation.QueuePoller
	champSelect *automation.ChampSelectPoller
	lobby       *lobby.Collector
	presence    *chat.Presence
	store       *settings.Store

	stopPoll      chan struct{}
	windowVisible bool
}

// NewApp wires the component graph. Nothing touches the network until
// startup runs.
func NewApp(log zerolog.Logger) *App {
	client := lcu.NewClient(lcu.WithLogger(log))
	resolver := champions.NewResolver(client, log)
	pick := automation.NewPickIntent()
	ban := automation.NewBanIntent()

	var lobbyOpts []lobby.CollectorOption
	if region := os.Getenv("DRAFTPILOT_FALLBACK_REGION"); region != "" {
		lobbyOpts = append(lobbyOpts, lobby.WithFallbackRegion(region))
	}

	return &App{
		log:           log,
		client:        client,
		events:        lcu.NewEventStream(log),
		resolver:      resolver,
		pick:          pick,
		ban:           ban,
		queue:         automation.NewQueuePoller(client, log),
		champSelect:   automation.NewChampSelectPoller(client, resolver, pick, ban, log),
		lobby:         lobby.NewCollector(client, log, lobbyOpts...),
		presence:      chat.NewPresence(client, log),
		stopPoll:      make(chan struct{}),
		windowVisible: true,
	}
}

// startup is called when the app starts.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	store, err := settings.Open()
	if err != nil {
		a.log.Warn().Err(err).Msg("settings store unavailable, choices will not persist")
	} else {
		a.store = store
		a.restoreSettings()
	}

	a.events.OnPhase(func(phase string) {
		runtime.EventsEmit(a.ctx, "gameflow:update", map[string]interface{}{
			"phase": phase,
		})
	})
	a.events.OnChampSelect(func(inChampSelect bool) {
		runtime.EventsEmit(a.ctx, "champselect:update", map[string]interface{}{
			"inChampSelect": inChampSelect,
		})
	})

	a.registerHotkey()
	go a.pollForLeagueClient()
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	close(a.stopPoll)
	a.queue.Stop()
	a.champSelect.Stop()
	a.events.Disconnect()
	if a.store != nil {
		a.store.Close()
	}
}

func (a *App) restoreSettings() {
	a.queue.SetEnabled(a.store.GetBool(settings.KeyQueueEnabled, false))
	a.pick.SetChampion(a.store.GetString(settings.KeyPickChampion, automation.ChoiceNone))
	a.pick.SetBackup2(a.store.GetString(settings.KeyPickBackup2, automation.ChoiceNone))
	a.pick.SetBackup3(a.store.GetString(settings.KeyPickBackup3, automation.ChoiceNone))
	a.pick.SetEnabled(a.store.GetBool(settings.KeyPickEnabled, false))
	a.ban.SetChampion(a.store.GetString(settings.KeyBanChampion, automation.ChoiceNone))
	a.ban.SetEnabled(a.store.GetBool(settings.KeyBanEnabled, false))
}

func (a *App) persist(key, value string) {
	if a.store == nil {
		return
	}
	if err := a.store.Set(key, value); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("failed to persist setting")
	}
}

func (a *App) persistBool(key string, value bool) {
	if a.store == nil {
		return
	}
	if err := a.store.SetBool(key, value); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("failed to persist setting")
	}
}
