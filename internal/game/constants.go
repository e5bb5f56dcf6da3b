package game

import (
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
)

// Board constants come from config so every binary agrees on them

func DefaultRows() int {
	return config.Get().Game.Board.Rows
}

func DefaultCols() int {
	return config.Get().Game.Board.Cols
}

func DefaultMines() int {
	return config.Get().Game.Board.Mines
}

// DoubleTapDelay is the window in which a second primary press becomes a flag
func DoubleTapDelay() time.Duration {
	return config.Get().Game.Input.DoubleTapDelay()
}
