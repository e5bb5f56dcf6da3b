package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"small board", 5, 5},
		{"rectangular board", 8, 20},
		{"single cell", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(tt.rows, tt.cols)

			assert.Equal(t, tt.rows, board.Rows)
			assert.Equal(t, tt.cols, board.Cols)
			assert.Len(t, board.T, tt.rows*tt.cols)
			for i, cell := range board.T {
				assert.False(t, cell.IsMine, "cell %d", i)
				assert.False(t, cell.IsRevealed, "cell %d", i)
				assert.False(t, cell.IsFlagged, "cell %d", i)
				assert.Zero(t, cell.AdjacentMines, "cell %d", i)
			}
			assert.Equal(t, StatusPlaying, board.Status())
		})
	}
}

func TestBoard_IdxAndRowCol(t *testing.T) {
	board := NewBoard(4, 6)
	idx := board.Idx(2, 5)
	assert.Equal(t, 17, idx)
	r, c := board.RowCol(idx)
	assert.Equal(t, 2, r)
	assert.Equal(t, 5, c)
}

func TestBoard_GetCell_OutOfBoundsReturnsNil(t *testing.T) {
	board := NewBoard(3, 3)
	assert.Nil(t, board.GetCell(-1, 0))
	assert.Nil(t, board.GetCell(0, 3))
	require.NotNil(t, board.GetCell(2, 2))
}

func TestBoard_AdjacencyMatchesNeighborMines(t *testing.T) {
	board := boardFromLayout(t,
		"*..*",
		"....",
		".**.",
	)

	require.Equal(t, 4, board.NumMines)
	for i := range board.T {
		cell := &board.T[i]
		if cell.IsMine {
			continue
		}
		want := 0
		for _, n := range cell.Neighbors {
			if board.CellAt(n).IsMine {
				want++
			}
		}
		assert.Equal(t, want, cell.AdjacentMines, "cell %d", i)
	}
	assert.Equal(t, 3, board.GetCell(1, 1).AdjacentMines)
}

func TestBoard_MinesRemaining_CanGoNegative(t *testing.T) {
	board := boardFromLayout(t,
		"*...",
		"....",
	)
	for c := 0; c < 3; c++ {
		_, err := board.ToggleFlag(1, c)
		require.NoError(t, err)
	}
	assert.Equal(t, -2, board.MinesRemaining())
}

func TestBoard_Status(t *testing.T) {
	board := NewBoard(2, 2)
	assert.Equal(t, StatusPlaying, board.Status())
	board.Won = true
	assert.Equal(t, StatusWon, board.Status())
	assert.True(t, board.Status().IsTerminal())
	board.Won, board.Lost = false, true
	assert.Equal(t, StatusLost, board.Status())
	assert.Equal(t, "lost", board.Status().String())
}
