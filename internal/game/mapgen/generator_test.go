package mapgen

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func TestDefaultMapConfig(t *testing.T) {
	config := DefaultMapConfig()

	assert.Equal(t, 8, config.Rows)
	assert.Equal(t, 8, config.Cols)
	assert.Equal(t, 10, config.NumMines)
	assert.NoError(t, config.Validate())
}

func TestNewGenerator(t *testing.T) {
	config := DefaultMapConfig()
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.Config())
	assert.Same(t, rng, generator.rng)
}

func TestMapConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  MapConfig
		wantErr bool
	}{
		{"default", DefaultMapConfig(), false},
		{"no mines", MapConfig{Rows: 3, Cols: 3, NumMines: 0}, false},
		{"one safe cell left", MapConfig{Rows: 3, Cols: 3, NumMines: 8}, false},
		{"single cell no mines", MapConfig{Rows: 1, Cols: 1, NumMines: 0}, false},
		{"zero rows", MapConfig{Rows: 0, Cols: 3, NumMines: 0}, true},
		{"negative cols", MapConfig{Rows: 3, Cols: -1, NumMines: 0}, true},
		{"negative mines", MapConfig{Rows: 3, Cols: 3, NumMines: -1}, true},
		{"mines fill board", MapConfig{Rows: 3, Cols: 3, NumMines: 9}, true},
		{"more mines than cells", MapConfig{Rows: 2, Cols: 2, NumMines: 10}, true},
		{"widest allowed strip", MapConfig{Rows: 1, Cols: MaxDimension, NumMines: 1}, false},
		{"largest allowed board", MapConfig{Rows: 2048, Cols: 2048, NumMines: 1}, false},
		{"too many rows", MapConfig{Rows: MaxDimension + 1, Cols: 1, NumMines: 0}, true},
		{"too many cells", MapConfig{Rows: MaxDimension, Cols: MaxDimension, NumMines: 1}, true},
		{"overflowing product", MapConfig{Rows: 1 << 40, Cols: 1 << 40, NumMines: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateBoard_PlacesExactMineCount(t *testing.T) {
	tests := []struct {
		name   string
		config MapConfig
	}{
		{"beginner", DefaultMapConfig()},
		{"intermediate", MapConfig{Rows: 16, Cols: 16, NumMines: 40}},
		{"dense", MapConfig{Rows: 4, Cols: 4, NumMines: 15}},
		{"empty", MapConfig{Rows: 5, Cols: 7, NumMines: 0}},
		{"single row", MapConfig{Rows: 1, Cols: 10, NumMines: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := NewGenerator(tt.config, newTestRNG()).GenerateBoard()
			require.NoError(t, err)

			assert.Equal(t, tt.config.Rows, board.Rows)
			assert.Equal(t, tt.config.Cols, board.Cols)
			assert.Equal(t, tt.config.NumMines, board.NumMines)
			assert.Equal(t, tt.config.NumMines, countMines(board))
			assert.Zero(t, board.RevealedCount)
			assert.Zero(t, board.FlagCount)
			assert.False(t, board.IsTerminal())
		})
	}
}

func TestGenerateBoard_NeighborsAndAdjacency(t *testing.T) {
	board, err := NewGenerator(MapConfig{Rows: 9, Cols: 11, NumMines: 20}, newTestRNG()).GenerateBoard()
	require.NoError(t, err)

	for i := range board.T {
		cell := &board.T[i]
		row, col := board.RowCol(i)
		self := core.NewCoordinate(row, col)

		assert.LessOrEqual(t, len(cell.Neighbors), 8)
		mines := 0
		for _, n := range cell.Neighbors {
			assert.True(t, n.IsValid(board.Rows, board.Cols), "neighbor %s of %s out of bounds", n, self)
			assert.False(t, n.Equal(self), "cell %s lists itself", self)
			assert.LessOrEqual(t, abs(n.Row-row), 1)
			assert.LessOrEqual(t, abs(n.Col-col), 1)
			if board.CellAt(n).IsMine {
				mines++
			}
		}
		if !cell.IsMine {
			assert.Equal(t, mines, cell.AdjacentMines, "adjacency mismatch at %s", self)
		}
		assert.False(t, cell.IsRevealed)
		assert.False(t, cell.IsFlagged)
	}

	assert.Len(t, board.GetCell(0, 0).Neighbors, 3)
	assert.Len(t, board.GetCell(0, 5).Neighbors, 5)
	assert.Len(t, board.GetCell(4, 5).Neighbors, 8)
}

func TestGenerateBoard_SameSeedSameBoard(t *testing.T) {
	a, err := NewGenerator(DefaultMapConfig(), newTestRNG()).GenerateBoard()
	require.NoError(t, err)
	b, err := NewGenerator(DefaultMapConfig(), newTestRNG()).GenerateBoard()
	require.NoError(t, err)

	for i := range a.T {
		assert.Equal(t, a.T[i].IsMine, b.T[i].IsMine, "cell %d", i)
	}
}

func TestGenerateBoard_InvalidConfig_NoBoard(t *testing.T) {
	board, err := NewGenerator(MapConfig{Rows: 2, Cols: 2, NumMines: 4}, newTestRNG()).GenerateBoard()
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	assert.Nil(t, board)
}

func TestInitialize(t *testing.T) {
	board, err := Initialize(5, 6, 7, newTestRNG())
	require.NoError(t, err)
	assert.Equal(t, 7, countMines(board))
	assert.Equal(t, 23, board.SafeCells())

	_, err = Initialize(-1, 6, 0, newTestRNG())
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestFromMines(t *testing.T) {
	board, err := FromMines(3, 3, []core.Coordinate{{Row: 0, Col: 0}, {Row: 2, Col: 2}})
	require.NoError(t, err)

	assert.True(t, board.GetCell(0, 0).IsMine)
	assert.True(t, board.GetCell(2, 2).IsMine)
	assert.Equal(t, 2, board.GetCell(1, 1).AdjacentMines)
	assert.Equal(t, 1, board.GetCell(0, 1).AdjacentMines)
	assert.Equal(t, 0, board.GetCell(0, 2).AdjacentMines)
	assert.Len(t, board.GetCell(1, 1).Neighbors, 8)
}

func TestFromMines_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		cols  int
		mines []core.Coordinate
	}{
		{"duplicate", 3, 3, []core.Coordinate{{Row: 1, Col: 1}, {Row: 1, Col: 1}}},
		{"off board", 3, 3, []core.Coordinate{{Row: 3, Col: 0}}},
		{"no safe cell", 1, 2, []core.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}}},
		{"empty board", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMines(tt.rows, tt.cols, tt.mines)
			assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
		})
	}
}

func countMines(b *core.Board) int {
	n := 0
	for i := range b.T {
		if b.T[i].IsMine {
			n++
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
