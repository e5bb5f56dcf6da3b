package events

import (
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted     = "game.started"
	TypeCellRevealed    = "cell.revealed"
	TypeFlagToggled     = "flag.toggled"
	TypeGameWon         = "game.won"
	TypeGameLost        = "game.lost"
	TypeGameReset       = "game.reset"
	TypeStateTransition = "state.transition"
)

// GameStartedEvent is published on the first mutating action of a game
type GameStartedEvent struct {
	BaseEvent
	Rows     int `json:"rows"`
	Cols     int `json:"cols"`
	NumMines int `json:"num_mines"`
}

func NewGameStartedEvent(gameID string, rows, cols, numMines int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: newBase(TypeGameStarted, gameID),
		Rows:      rows,
		Cols:      cols,
		NumMines:  numMines,
	}
}

// CellRevealedEvent is published after a reveal changed the board
type CellRevealedEvent struct {
	BaseEvent
	Target  core.Coordinate    `json:"target"`
	Outcome core.RevealOutcome `json:"outcome"`
	Opened  int                `json:"opened"`
}

func NewCellRevealedEvent(gameID string, target core.Coordinate, res core.RevealResult) *CellRevealedEvent {
	return &CellRevealedEvent{
		BaseEvent: newBase(TypeCellRevealed, gameID),
		Target:    target,
		Outcome:   res.Outcome,
		Opened:    len(res.Cells),
	}
}

// FlagToggledEvent is published after a flag was placed or removed
type FlagToggledEvent struct {
	BaseEvent
	Target    core.Coordinate  `json:"target"`
	Outcome   core.FlagOutcome `json:"outcome"`
	FlagCount int              `json:"flag_count"`
}

func NewFlagToggledEvent(gameID string, target core.Coordinate, outcome core.FlagOutcome, flagCount int) *FlagToggledEvent {
	return &FlagToggledEvent{
		BaseEvent: newBase(TypeFlagToggled, gameID),
		Target:    target,
		Outcome:   outcome,
		FlagCount: flagCount,
	}
}

// GameWonEvent is published once when the last safe cell is revealed
type GameWonEvent struct {
	BaseEvent
	Elapsed time.Duration `json:"elapsed"`
}

func NewGameWonEvent(gameID string, elapsed time.Duration) *GameWonEvent {
	return &GameWonEvent{
		BaseEvent: newBase(TypeGameWon, gameID),
		Elapsed:   elapsed,
	}
}

// GameLostEvent is published once when a mine is revealed
type GameLostEvent struct {
	BaseEvent
	Mine    core.Coordinate `json:"mine"`
	Elapsed time.Duration   `json:"elapsed"`
}

func NewGameLostEvent(gameID string, mine core.Coordinate, elapsed time.Duration) *GameLostEvent {
	return &GameLostEvent{
		BaseEvent: newBase(TypeGameLost, gameID),
		Mine:      mine,
		Elapsed:   elapsed,
	}
}

// GameResetEvent is published when a new board replaces the current one
type GameResetEvent struct {
	BaseEvent
	PreviousStatus core.GameStatus `json:"previous_status"`
}

func NewGameResetEvent(gameID string, previous core.GameStatus) *GameResetEvent {
	return &GameResetEvent{
		BaseEvent:      newBase(TypeGameReset, gameID),
		PreviousStatus: previous,
	}
}

// StateTransitionEvent is published when the game phase changes
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
