package main

import (
	"embed"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Optional overrides (log level, fallback region) may come from a .env
	// next to the executable.
	_ = godotenv.Load()

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("DRAFTPILOT_LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	app := NewApp(log)

	err := wails.Run(&options.App{
		Title:         "DraftPilot",
		Width:         420,
		Height:        560,
		DisableResize: false,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 18, G: 18, B: 24, A: 255},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Windows: &windows.Options{
			DisableWindowIcon: true,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start application")
	}
}
