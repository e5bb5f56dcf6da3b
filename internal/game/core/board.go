package core

// Cell is a single square of the minefield.
// Neighbors is filled once by the board generator and never changes afterwards.
type Cell struct {
	IsMine        bool
	IsRevealed    bool
	IsFlagged     bool
	AdjacentMines int
	Neighbors     []Coordinate
}

// IsEmpty reports whether the cell is safe and touches no mines
func (c *Cell) IsEmpty() bool { return !c.IsMine && c.AdjacentMines == 0 }

// IsHidden reports whether the cell is neither revealed nor flagged
func (c *Cell) IsHidden() bool { return !c.IsRevealed && !c.IsFlagged }

// Board owns the grid and the session counters that go with it.
type Board struct {
	Rows, Cols int
	NumMines   int
	T          []Cell // length = Rows*Cols (row-major)

	RevealedCount int
	FlagCount     int
	Lost          bool
	Won           bool
}

// NewBoard allocates an empty rows x cols grid with no mines
func NewBoard(rows, cols int) *Board {
	return &Board{Rows: rows, Cols: cols, T: make([]Cell, rows*cols)}
}

func (b *Board) Idx(row, col int) int      { return row*b.Cols + col }
func (b *Board) RowCol(idx int) (int, int) { return idx / b.Cols, idx % b.Cols }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
}

// GetCell safely returns a cell pointer if coordinates are valid, nil otherwise
func (b *Board) GetCell(row, col int) *Cell {
	if !b.InBounds(row, col) {
		return nil
	}
	return &b.T[b.Idx(row, col)]
}

// CellAt is GetCell for a Coordinate
func (b *Board) CellAt(c Coordinate) *Cell {
	return b.GetCell(c.Row, c.Col)
}

func (b *Board) TotalCells() int { return b.Rows * b.Cols }

// SafeCells is the number of reveals needed to win
func (b *Board) SafeCells() int { return b.TotalCells() - b.NumMines }

// IsTerminal reports whether the game on this board has been won or lost
func (b *Board) IsTerminal() bool { return b.Lost || b.Won }

// Status derives the tri-state game status from the board
func (b *Board) Status() GameStatus {
	switch {
	case b.Lost:
		return StatusLost
	case b.Won:
		return StatusWon
	default:
		return StatusPlaying
	}
}

// MinesRemaining is NumMines minus placed flags; negative when over-flagged
func (b *Board) MinesRemaining() int { return b.NumMines - b.FlagCount }

// allSafeRevealed is the single win threshold used by every reveal and flag path
func (b *Board) allSafeRevealed() bool {
	return b.RevealedCount == b.SafeCells()
}

// declareWin ends the game as won and flags every cell still hidden
func (b *Board) declareWin() {
	b.Won = true
	for i := range b.T {
		c := &b.T[i]
		if c.IsHidden() {
			c.IsFlagged = true
			b.FlagCount++
		}
	}
}

// declareLoss ends the game as lost and exposes the whole grid
func (b *Board) declareLoss() {
	b.Lost = true
	for i := range b.T {
		b.T[i].IsRevealed = true
	}
}
