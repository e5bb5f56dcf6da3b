package states

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Clock is the time source for StartTime, EndTime and transition history
	Clock clock.Clock

	// StartTime is when PhasePlaying was entered
	StartTime time.Time

	// EndTime is when a terminal phase was entered
	EndTime time.Time
}

// NewGameContext creates a new game context. A nil clk uses the wall clock.
func NewGameContext(gameID string, clk clock.Clock, logger zerolog.Logger) *GameContext {
	if clk == nil {
		clk = clock.New()
	}
	return &GameContext{
		GameID: gameID,
		Clock:  clk,
		Logger: logger.With().Str("game_id", gameID).Logger(),
	}
}

// ElapsedTime returns the time since the game started. It stops advancing
// once the game has ended and is zero before the first move.
func (gc *GameContext) ElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return gc.Clock.Since(gc.StartTime)
}
