package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// MapConfig holds configuration for board generation
type MapConfig struct {
	Rows     int
	Cols     int
	NumMines int
}

// Generation allocates every cell up front, so boards are capped
const (
	MaxDimension = 4096
	MaxCells     = 1 << 22
)

// DefaultMapConfig returns the classic beginner board: 8x8 with 10 mines
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Rows:     8,
		Cols:     8,
		NumMines: 10,
	}
}

// Validate rejects configurations that cannot produce a playable board.
// A board needs at least one safe cell, so NumMines must be below Rows*Cols.
func (c MapConfig) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", core.ErrInvalidConfiguration, c.Rows, c.Cols)
	}
	if c.Rows > MaxDimension || c.Cols > MaxDimension {
		return fmt.Errorf("%w: board %dx%d exceeds the %d cell side limit",
			core.ErrInvalidConfiguration, c.Rows, c.Cols, MaxDimension)
	}
	if c.Rows*c.Cols > MaxCells {
		return fmt.Errorf("%w: board %dx%d has more than %d cells",
			core.ErrInvalidConfiguration, c.Rows, c.Cols, MaxCells)
	}
	if c.NumMines < 0 {
		return fmt.Errorf("%w: mine count %d is negative", core.ErrInvalidConfiguration, c.NumMines)
	}
	if c.NumMines >= c.Rows*c.Cols {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board with a safe cell left",
			core.ErrInvalidConfiguration, c.NumMines, c.Rows, c.Cols)
	}
	return nil
}

// Generator handles board generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new board generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// Config returns the configuration the generator was built with
func (g *Generator) Config() MapConfig { return g.config }

// GenerateBoard creates a fresh board with mines placed and every cell's
// neighbors and adjacency count computed
func (g *Generator) GenerateBoard() (*core.Board, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	board := core.NewBoard(g.config.Rows, g.config.Cols)
	board.NumMines = g.config.NumMines

	g.placeMines(board)
	computeNeighbors(board)
	computeAdjacency(board)

	return board, nil
}

// placeMines uses rejection sampling: draw a uniform cell and retry when it
// already holds a mine. Validate guarantees at least one free cell.
func (g *Generator) placeMines(b *core.Board) {
	placed := 0
	for placed < b.NumMines {
		row, col := g.rng.Intn(b.Rows), g.rng.Intn(b.Cols)
		cell := b.GetCell(row, col)
		if cell.IsMine {
			continue
		}
		cell.IsMine = true
		placed++
	}
}

func computeNeighbors(b *core.Board) {
	for i := range b.T {
		row, col := b.RowCol(i)
		b.T[i].Neighbors = core.NewCoordinate(row, col).ValidNeighbors(b.Rows, b.Cols)
	}
}

func computeAdjacency(b *core.Board) {
	for i := range b.T {
		cell := &b.T[i]
		if cell.IsMine {
			continue
		}
		count := 0
		for _, n := range cell.Neighbors {
			if b.CellAt(n).IsMine {
				count++
			}
		}
		cell.AdjacentMines = count
	}
}

// Initialize builds a random board of the given dimensions
func Initialize(rows, cols, numMines int, rng *rand.Rand) (*core.Board, error) {
	return NewGenerator(MapConfig{Rows: rows, Cols: cols, NumMines: numMines}, rng).GenerateBoard()
}

// FromMines builds a board with mines at exactly the given positions
func FromMines(rows, cols int, mines []core.Coordinate) (*core.Board, error) {
	cfg := MapConfig{Rows: rows, Cols: cols, NumMines: len(mines)}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	board := core.NewBoard(rows, cols)
	board.NumMines = len(mines)
	for _, m := range mines {
		cell := board.CellAt(m)
		if cell == nil {
			return nil, fmt.Errorf("%w: mine at %s is off the board", core.ErrInvalidConfiguration, m)
		}
		if cell.IsMine {
			return nil, fmt.Errorf("%w: duplicate mine at %s", core.ErrInvalidConfiguration, m)
		}
		cell.IsMine = true
	}

	computeNeighbors(board)
	computeAdjacency(board)
	return board, nil
}
