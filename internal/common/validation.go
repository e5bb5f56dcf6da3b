package common

// IsValidCell checks if (row, col) lies on a rows x cols grid
func IsValidCell(row, col, rows, cols int) bool {
	return row >= 0 && row < rows && col >= 0 && col < cols
}

// PointToCell maps a pixel position to the grid cell under it. The board's
// top-left corner sits at (originX, originY). ok is false off the board.
func PointToCell(x, y, originX, originY, tileSize, rows, cols int) (row, col int, ok bool) {
	if tileSize <= 0 {
		return 0, 0, false
	}
	col = FloorDiv(x-originX, tileSize)
	row = FloorDiv(y-originY, tileSize)
	return row, col, IsValidCell(row, col, rows, cols)
}
