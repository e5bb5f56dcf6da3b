package rules

import "github.com/mitchelldurbincs/minesweeper/internal/game/core"

// Actions per cell in the action mask
const (
	MaskReveal = 0
	MaskFlag   = 1
	MaskWidth  = 2
)

// LegalMoveCalculator computes which cell actions would change the board
type LegalMoveCalculator struct{}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator() *LegalMoveCalculator {
	return &LegalMoveCalculator{}
}

// GetLegalActionMask returns a flattened boolean mask of effective actions.
// For a board of R rows and C cols:
// - Total actions = R * C * 2
// - Index = (row * C + col) * 2 + kind
// - Kinds: 0=reveal, 1=flag toggle
// A terminal board yields an all-false mask.
func (lmc *LegalMoveCalculator) GetLegalActionMask(board *core.Board) []bool {
	mask := make([]bool, board.TotalCells()*MaskWidth)
	if board.IsTerminal() {
		return mask
	}

	for idx := range board.T {
		cell := &board.T[idx]
		if cell.IsRevealed {
			continue
		}
		mask[idx*MaskWidth+MaskFlag] = true
		if !cell.IsFlagged {
			mask[idx*MaskWidth+MaskReveal] = true
		}
	}
	return mask
}

// RevealableCells lists cells where a reveal would not be a no-op, in row-major order
func (lmc *LegalMoveCalculator) RevealableCells(board *core.Board) []core.Coordinate {
	if board.IsTerminal() {
		return nil
	}
	var cells []core.Coordinate
	for idx := range board.T {
		if board.T[idx].IsHidden() {
			cells = append(cells, core.FromIndex(idx, board.Cols))
		}
	}
	return cells
}

// FlaggableCells lists cells where a flag toggle would not be a no-op
func (lmc *LegalMoveCalculator) FlaggableCells(board *core.Board) []core.Coordinate {
	if board.IsTerminal() {
		return nil
	}
	var cells []core.Coordinate
	for idx := range board.T {
		if !board.T[idx].IsRevealed {
			cells = append(cells, core.FromIndex(idx, board.Cols))
		}
	}
	return cells
}
