package game

import "github.com/mitchelldurbincs/minesweeper/internal/game/core"

// GameState is the mutable session owned by the engine
type GameState struct {
	Board   *core.Board
	Started bool
	Stats   GameStats
}
