package testutil

import (
	"testing"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
)

// MinesFromLayout reads rows of '*' (mine) and '.' (safe) and returns the
// board size and mine positions in row-major order.
func MinesFromLayout(t *testing.T, layout ...string) (rows, cols int, mines []core.Coordinate) {
	t.Helper()
	if len(layout) == 0 {
		t.Fatal("layout is empty")
	}
	rows, cols = len(layout), len(layout[0])
	mines = []core.Coordinate{}
	for r, line := range layout {
		if len(line) != cols {
			t.Fatalf("layout row %d has %d columns, want %d", r, len(line), cols)
		}
		for c, ch := range line {
			switch ch {
			case '*':
				mines = append(mines, core.NewCoordinate(r, c))
			case '.':
			default:
				t.Fatalf("layout row %d has unexpected %q", r, ch)
			}
		}
	}
	return rows, cols, mines
}

// BoardFromLayout builds a ready-to-play board from an ASCII layout
func BoardFromLayout(t *testing.T, layout ...string) *core.Board {
	t.Helper()
	rows, cols, mines := MinesFromLayout(t, layout...)
	board, err := mapgen.FromMines(rows, cols, mines)
	if err != nil {
		t.Fatalf("building board from layout: %v", err)
	}
	return board
}

// CountMines scans the grid rather than trusting NumMines
func CountMines(b *core.Board) int {
	n := 0
	for i := range b.T {
		if b.T[i].IsMine {
			n++
		}
	}
	return n
}
