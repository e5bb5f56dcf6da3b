package game

import (
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
)

// CellView is the presentation copy of one cell
type CellView struct {
	Row, Col      int
	IsRevealed    bool
	IsFlagged     bool
	IsMine        bool // only set for revealed cells or once the game is over
	AdjacentMines int  // only set for revealed cells
}

// Snapshot is an immutable copy of the game for presentation layers
type Snapshot struct {
	GameID         string
	Rows, Cols     int
	NumMines       int
	Cells          []CellView // row-major
	Status         core.GameStatus
	Phase          states.GamePhase
	Started        bool
	MinesRemaining int
	Elapsed        time.Duration
	RevealedCount  int
	FlagCount      int
	TakenAt        time.Time
}

// Cell returns the view at (row, col); ok is false when out of bounds
func (s *Snapshot) Cell(row, col int) (CellView, bool) {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return CellView{}, false
	}
	return s.Cells[row*s.Cols+col], true
}

// Snapshot copies the current game. Hidden mines stay hidden while the game
// is in progress.
func (e *Engine) Snapshot() Snapshot {
	return e.snapshot(false)
}

// DebugSnapshot is Snapshot with every mine exposed
func (e *Engine) DebugSnapshot() Snapshot {
	return e.snapshot(true)
}

func (e *Engine) snapshot(exposeMines bool) Snapshot {
	b := e.gs.Board
	terminal := b.IsTerminal()

	cells := make([]CellView, len(b.T))
	for i := range b.T {
		c := &b.T[i]
		row, col := b.RowCol(i)
		view := CellView{
			Row:        row,
			Col:        col,
			IsRevealed: c.IsRevealed,
			IsFlagged:  c.IsFlagged,
		}
		if c.IsRevealed || terminal || exposeMines {
			view.IsMine = c.IsMine
		}
		if c.IsRevealed || exposeMines {
			view.AdjacentMines = c.AdjacentMines
		}
		cells[i] = view
	}

	return Snapshot{
		GameID:         e.gameID,
		Rows:           b.Rows,
		Cols:           b.Cols,
		NumMines:       b.NumMines,
		Cells:          cells,
		Status:         b.Status(),
		Phase:          e.stateMachine.CurrentPhase(),
		Started:        e.gs.Started,
		MinesRemaining: b.MinesRemaining(),
		Elapsed:        e.Elapsed(),
		RevealedCount:  b.RevealedCount,
		FlagCount:      b.FlagCount,
		TakenAt:        e.clock.Now(),
	}
}
