package core

// FlagOutcome describes what a flag toggle did to the board
type FlagOutcome int

const (
	FlagNoOp FlagOutcome = iota
	FlagFlagged
	FlagUnflagged
	FlagWon
)

func (o FlagOutcome) String() string {
	switch o {
	case FlagNoOp:
		return "noop"
	case FlagFlagged:
		return "flagged"
	case FlagUnflagged:
		return "unflagged"
	case FlagWon:
		return "won"
	default:
		return "unknown"
	}
}

// ToggleFlag flips the flag on a hidden cell. Flags are markers only and do
// not need to sit on mines.
func (b *Board) ToggleFlag(row, col int) (FlagOutcome, error) {
	if !b.InBounds(row, col) {
		return FlagNoOp, ErrInvalidCoordinates
	}
	cell := b.GetCell(row, col)
	if b.IsTerminal() || cell.IsRevealed {
		return FlagNoOp, nil
	}

	outcome := FlagFlagged
	if cell.IsFlagged {
		cell.IsFlagged = false
		if b.FlagCount > 0 {
			b.FlagCount--
		}
		outcome = FlagUnflagged
	} else {
		cell.IsFlagged = true
		if b.FlagCount < b.TotalCells() {
			b.FlagCount++
		}
	}

	// Reveals are the only way RevealedCount moves, so this only fires when
	// the counters were already at the threshold without the win being set.
	if b.allSafeRevealed() {
		b.declareWin()
		return FlagWon, nil
	}
	return outcome, nil
}
