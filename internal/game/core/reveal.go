package core

import "github.com/gammazero/deque"

// RevealOutcome describes what a reveal did to the board
type RevealOutcome int

const (
	RevealNoOp RevealOutcome = iota
	RevealRevealed
	RevealHitMine
	RevealWon
)

func (o RevealOutcome) String() string {
	switch o {
	case RevealNoOp:
		return "noop"
	case RevealRevealed:
		return "revealed"
	case RevealHitMine:
		return "hit_mine"
	case RevealWon:
		return "won"
	default:
		return "unknown"
	}
}

// RevealResult lists the cells a single reveal opened, in reveal order.
// Force-revealed cells after a loss are not included.
type RevealResult struct {
	Outcome RevealOutcome
	Cells   []Coordinate
}

// Reveal opens the cell at (row, col). A zero-adjacency cell flood fills its
// connected empty region plus the numbered border of that region.
func (b *Board) Reveal(row, col int) (RevealResult, error) {
	if !b.InBounds(row, col) {
		return RevealResult{}, ErrInvalidCoordinates
	}
	cell := b.GetCell(row, col)
	if b.IsTerminal() || cell.IsRevealed || cell.IsFlagged {
		return RevealResult{Outcome: RevealNoOp}, nil
	}

	start := Coordinate{Row: row, Col: col}
	res := RevealResult{Outcome: RevealRevealed, Cells: []Coordinate{start}}
	cell.IsRevealed = true
	b.RevealedCount++

	if cell.IsMine {
		b.declareLoss()
		res.Outcome = RevealHitMine
		return res, nil
	}
	if b.allSafeRevealed() {
		b.declareWin()
		res.Outcome = RevealWon
		return res, nil
	}
	if cell.AdjacentMines != 0 {
		return res, nil
	}

	if b.floodFill(start, &res.Cells) {
		res.Outcome = RevealWon
	}
	return res, nil
}

// floodFill expands from an already revealed empty cell. Returns true if the
// fill revealed the last safe cell, in which case it stops immediately.
func (b *Board) floodFill(start Coordinate, opened *[]Coordinate) bool {
	var work deque.Deque[Coordinate]
	work.PushBack(start)

	for work.Len() > 0 {
		cur := work.PopFront()
		for _, n := range b.CellAt(cur).Neighbors {
			nc := b.CellAt(n)
			if nc.IsRevealed || nc.IsFlagged || nc.IsMine {
				continue
			}
			nc.IsRevealed = true
			b.RevealedCount++
			*opened = append(*opened, n)

			if b.allSafeRevealed() {
				b.declareWin()
				return true
			}
			if nc.AdjacentMines == 0 {
				work.PushBack(n)
			}
		}
	}
	return false
}
