package core

import "fmt"

// Coordinate represents a cell position on the board
type Coordinate struct {
	Row, Col int
}

// NewCoordinate creates a new coordinate with the given row and column
func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, cols int) Coordinate {
	return Coordinate{
		Row: idx / cols,
		Col: idx % cols,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(rows, cols int) bool {
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex(cols int) int {
	return c.Row*cols + c.Col
}

// NeighborOffsets lists the eight surrounding offsets in row-major scan order:
// NW, N, NE, W, E, SW, S, SE.
var NeighborOffsets = [8]Coordinate{
	{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
	{Row: 0, Col: -1}, {Row: 0, Col: 1},
	{Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
}

// Neighbors returns the eight surrounding coordinates, including out-of-bounds ones
func (c Coordinate) Neighbors() []Coordinate {
	neighbors := make([]Coordinate, 0, len(NeighborOffsets))
	for _, off := range NeighborOffsets {
		neighbors = append(neighbors, c.Add(off))
	}
	return neighbors
}

// ValidNeighbors returns only the neighbors that are within the given bounds
func (c Coordinate) ValidNeighbors(rows, cols int) []Coordinate {
	valid := make([]Coordinate, 0, len(NeighborOffsets))
	for _, off := range NeighborOffsets {
		n := c.Add(off)
		if n.IsValid(rows, cols) {
			valid = append(valid, n)
		}
	}
	return valid
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		Row: c.Row + other.Row,
		Col: c.Col + other.Col,
	}
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.Row == other.Row && c.Col == other.Col
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
