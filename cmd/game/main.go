package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// A terminal demo: plays a naive random game and prints the board as it goes
func main() {
	configPath := flag.String("config", "", "Path to config file")
	rows := flag.Int("rows", 0, "Board rows (0 to use config default)")
	cols := flag.Int("cols", 0, "Board columns (0 to use config default)")
	mines := flag.Int("mines", -1, "Mine count (-1 to use config default)")
	seed := flag.Int64("seed", 0, "RNG seed (0 to use config or time)")
	maxMoves := flag.Int("max-moves", 0, "Stop after this many moves (0 to use config default)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	setupLogging(cfg.Demo.LogLevel, cfg.Demo.LogFormat)

	if *rows == 0 {
		*rows = cfg.Game.Board.Rows
	}
	if *cols == 0 {
		*cols = cfg.Game.Board.Cols
	}
	if *mines == -1 {
		*mines = cfg.Game.Board.Mines
	}
	if *maxMoves == 0 {
		*maxMoves = cfg.Demo.MaxMoves
	}
	if *seed == 0 {
		*seed = cfg.Demo.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	fmt.Printf("Game seed: %d\n", *seed)
	rng := rand.New(rand.NewSource(*seed))

	ctx := context.Background()
	g, err := game.NewEngine(ctx, game.GameConfig{
		Rows:      *rows,
		Cols:      *cols,
		NumMines:  *mines,
		Rng:       rng,
		Logger:    log.Logger,
		LogEvents: cfg.Development.VerboseLogging,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}

	fmt.Printf("Initial board:\n%s\n", g.Board())

	moves := 0
	for ; moves < *maxMoves && !g.IsGameOver(); moves++ {
		action := game.GenerateRandomAction(g, rng)
		if action == nil {
			break
		}

		res, err := g.Apply(ctx, action)
		if err != nil {
			log.Error().Err(err).Int("move", moves+1).Msg("Move failed")
			break
		}

		fmt.Printf("Move %d: %s %s", moves+1, action.GetType(), action.Target())
		if action.GetType() == core.ActionReveal {
			fmt.Printf(" -> %s (%d cells)\n", res.Reveal.Outcome, len(res.Reveal.Cells))
		} else {
			fmt.Printf(" -> %s\n", res.Flag)
		}
		fmt.Printf("%s\n", g.Board())
	}

	stats := g.Stats()
	switch {
	case g.Won():
		fmt.Printf("Cleared the board in %d moves!\n", moves)
	case g.Lost():
		fmt.Printf("BOOM! Hit a mine after %d moves.\n", moves)
	default:
		fmt.Printf("Stopped after %d moves\n", moves)
	}
	fmt.Printf("Reveals: %d, cells opened: %d, flags: %d, unflags: %d, no-ops: %d\n",
		stats.Reveals, stats.CellsOpened, stats.Flags, stats.Unflags, stats.NoOps)
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
