package core

import "testing"

// boardFromLayout builds a board from rows of '*' (mine) and '.' (safe).
// Neighbors and adjacency are filled the same way the generator does.
func boardFromLayout(t *testing.T, layout ...string) *Board {
	t.Helper()
	rows, cols := len(layout), len(layout[0])
	b := NewBoard(rows, cols)
	for r, line := range layout {
		if len(line) != cols {
			t.Fatalf("layout row %d has %d columns, want %d", r, len(line), cols)
		}
		for c, ch := range line {
			if ch == '*' {
				b.T[b.Idx(r, c)].IsMine = true
				b.NumMines++
			}
		}
	}
	for i := range b.T {
		r, c := b.RowCol(i)
		b.T[i].Neighbors = NewCoordinate(r, c).ValidNeighbors(rows, cols)
		for _, n := range b.T[i].Neighbors {
			if b.CellAt(n).IsMine {
				b.T[i].AdjacentMines++
			}
		}
	}
	return b
}
