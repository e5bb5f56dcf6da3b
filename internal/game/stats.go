package game

import "github.com/mitchelldurbincs/minesweeper/internal/game/core"

// GameStats counts player input for the current board
type GameStats struct {
	Reveals     int // reveals that changed the board
	CellsOpened int // cells opened by player reveals, flood fill included
	Flags       int
	Unflags     int
	NoOps       int // input that hit a revealed, flagged or finished cell
}

func (s *GameStats) recordReveal(res core.RevealResult) {
	if res.Outcome == core.RevealNoOp {
		s.NoOps++
		return
	}
	s.Reveals++
	s.CellsOpened += len(res.Cells)
}

func (s *GameStats) recordFlag(outcome core.FlagOutcome) {
	switch outcome {
	case core.FlagNoOp:
		s.NoOps++
	case core.FlagUnflagged:
		s.Unflags++
	default:
		s.Flags++
	}
}

// Moves is the number of inputs that changed the board
func (s GameStats) Moves() int {
	return s.Reveals + s.Flags + s.Unflags
}
