package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay (loads config.<env>.yaml)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *env != "" {
		if err := config.LoadEnvironmentConfig(*env); err != nil {
			log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
		}
	}
	cfg := config.Get()

	if cfg.Development.VerboseLogging {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	clk := clock.New()
	engine, err := game.NewEngine(context.Background(), game.GameConfig{
		Rows:      cfg.Game.Board.Rows,
		Cols:      cfg.Game.Board.Cols,
		NumMines:  cfg.Game.Board.Mines,
		Clock:     clk,
		Logger:    log.Logger,
		LogEvents: cfg.Development.VerboseLogging,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}

	uiGame, err := ui.NewUIGame(engine, clk, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create UI")
	}

	// Colors, tile size and tap delay apply live; board size on the next launch
	if path := config.ConfigFilePath(); path != "" {
		config.WatchConfig(uiGame.RequestReload, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
		})
		log.Info().Str("path", path).Msg("Watching config for changes")
	}

	ebiten.SetWindowSize(uiGame.Layout(0, 0))
	ebiten.SetWindowTitle(cfg.UI.Window.Title)
	if cfg.UI.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(uiGame); err != nil {
		log.Fatal().Err(err).Msg("Game loop exited with error")
	}
}
