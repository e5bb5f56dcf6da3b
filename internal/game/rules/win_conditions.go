package rules

import (
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/rs/zerolog"
)

// WinConditionChecker turns board counters into a game status
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// CheckGameOver reports whether the board is finished and how it ended.
// The board's own Lost/Won flags are authoritative; counters are only
// cross-checked so an inconsistent board shows up in the logs.
func (wc *WinConditionChecker) CheckGameOver(board *core.Board) (bool, core.GameStatus) {
	status := board.Status()

	if status == core.StatusPlaying && board.RevealedCount >= board.SafeCells() {
		wc.logger.Warn().
			Int("revealed", board.RevealedCount).
			Int("safe_cells", board.SafeCells()).
			Msg("All safe cells revealed but board not marked won")
	}
	if board.Lost && board.Won {
		wc.logger.Error().Msg("Board is marked both won and lost")
	}

	wc.logger.Debug().
		Str("status", status.String()).
		Int("revealed", board.RevealedCount).
		Int("safe_cells", board.SafeCells()).
		Int("flags", board.FlagCount).
		Msg("Game over check complete")

	return status.IsTerminal(), status
}
