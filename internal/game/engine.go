package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
	"github.com/mitchelldurbincs/minesweeper/internal/game/processor"
	"github.com/mitchelldurbincs/minesweeper/internal/game/rules"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
	"github.com/rs/zerolog"
)

// GameConfig holds configuration for creating a new game engine
type GameConfig struct {
	Rows     int
	Cols     int
	NumMines int
	Rng      *rand.Rand
	Logger   zerolog.Logger
	GameID   string
	Clock    clock.Clock

	// Mines fixes the layout instead of placing mines at random. Restarts
	// reuse the same layout. NumMines is taken from len(Mines).
	Mines []core.Coordinate

	// EventBus lets callers share a bus across engines; nil creates one
	EventBus *events.EventBus

	// LogEvents subscribes a structured logger to every game event
	LogEvents bool
}

// Engine owns one board and its session. It is not safe for concurrent use;
// callers serialize access.
type Engine struct {
	gs              *GameState
	rng             *rand.Rand
	mapConfig       mapgen.MapConfig
	fixedMines      []core.Coordinate
	logger          zerolog.Logger
	actionProcessor *processor.ActionProcessor
	winCondition    *rules.WinConditionChecker
	legalMoves      *rules.LegalMoveCalculator
	eventBus        *events.EventBus
	gameID          string
	stateMachine    *states.StateMachine
	clock           clock.Clock
}

// NewEngine creates a new game engine. An invalid board configuration
// returns core.ErrInvalidConfiguration and no engine.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Reveal opens the cell at (row, col)
func (e *Engine) Reveal(ctx context.Context, row, col int) (core.RevealResult, error) {
	res, err := e.apply(ctx, &core.RevealAction{Row: row, Col: col})
	if err != nil {
		return core.RevealResult{}, err
	}
	e.gs.Stats.recordReveal(res.Reveal)
	return res.Reveal, nil
}

// ToggleFlag places or removes a flag at (row, col)
func (e *Engine) ToggleFlag(ctx context.Context, row, col int) (core.FlagOutcome, error) {
	res, err := e.apply(ctx, &core.FlagAction{Row: row, Col: col})
	if err != nil {
		return core.FlagNoOp, err
	}
	e.gs.Stats.recordFlag(res.Flag)
	return res.Flag, nil
}

// Apply runs an arbitrary cell action through the same path as Reveal and ToggleFlag
func (e *Engine) Apply(ctx context.Context, action core.Action) (processor.ActionResult, error) {
	res, err := e.apply(ctx, action)
	if err != nil {
		return res, err
	}
	switch action.(type) {
	case *core.RevealAction:
		e.gs.Stats.recordReveal(res.Reveal)
	case *core.FlagAction:
		e.gs.Stats.recordFlag(res.Flag)
	}
	return res, nil
}

func (e *Engine) apply(ctx context.Context, action core.Action) (processor.ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return processor.ActionResult{}, err
	}
	// The clock starts with the first action that will change the board, so
	// the start event precedes the action's own events.
	if !e.gs.Started && e.wouldChange(action) {
		if err := e.start(); err != nil {
			return processor.ActionResult{}, err
		}
	}

	res, err := e.actionProcessor.ProcessAction(ctx, e.gameID, e.gs.Board, action)
	if err != nil {
		return processor.ActionResult{}, err
	}

	if res.Changed() {
		e.checkGameOver(res)
	}
	return res, nil
}

// wouldChange reports whether action would mutate the board if applied now
func (e *Engine) wouldChange(action core.Action) bool {
	if action == nil || action.Validate(e.gs.Board) != nil || e.gs.Board.IsTerminal() {
		return false
	}
	cell := e.gs.Board.CellAt(action.Target())
	switch action.GetType() {
	case core.ActionReveal:
		return cell.IsHidden()
	case core.ActionFlag:
		return !cell.IsRevealed
	default:
		return false
	}
}

func (e *Engine) start() error {
	if err := e.stateMachine.TransitionTo(states.PhasePlaying, "first move"); err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	e.gs.Started = true
	b := e.gs.Board
	e.eventBus.Publish(events.NewGameStartedEvent(e.gameID, b.Rows, b.Cols, b.NumMines))
	return nil
}

// checkGameOver moves the phase machine to Won or Lost once the board is
// terminal. Each terminal transition happens exactly once per board.
func (e *Engine) checkGameOver(res processor.ActionResult) {
	over, status := e.winCondition.CheckGameOver(e.gs.Board)
	if !over || e.stateMachine.CurrentPhase().IsTerminal() {
		return
	}

	switch status {
	case core.StatusWon:
		if err := e.stateMachine.TransitionTo(states.PhaseWon, "all safe cells revealed"); err != nil {
			e.logger.Error().Err(err).Msg("Failed to transition to Won")
			return
		}
		e.eventBus.Publish(events.NewGameWonEvent(e.gameID, e.Elapsed()))

	case core.StatusLost:
		if err := e.stateMachine.TransitionTo(states.PhaseLost, "mine revealed"); err != nil {
			e.logger.Error().Err(err).Msg("Failed to transition to Lost")
			return
		}
		var mine core.Coordinate
		if len(res.Reveal.Cells) > 0 {
			mine = res.Reveal.Cells[0]
		}
		e.eventBus.Publish(events.NewGameLostEvent(e.gameID, mine, e.Elapsed()))
	}
}

// Reset discards the board and deals a new one with the same dimensions
func (e *Engine) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	board, err := generateBoard(e.mapConfig, e.fixedMines, e.rng)
	if err != nil {
		return fmt.Errorf("regenerating board: %w", err)
	}

	previous := e.gs.Board.Status()
	e.gs = &GameState{Board: board}

	if err := e.stateMachine.Reset("restart"); err != nil {
		return fmt.Errorf("resetting phase: %w", err)
	}
	e.eventBus.Publish(events.NewGameResetEvent(e.gameID, previous))

	e.logger.Info().
		Str("previous_status", previous.String()).
		Msg("Game reset")
	return nil
}

func generateBoard(cfg mapgen.MapConfig, mines []core.Coordinate, rng *rand.Rand) (*core.Board, error) {
	if mines != nil {
		return mapgen.FromMines(cfg.Rows, cfg.Cols, mines)
	}
	return mapgen.NewGenerator(cfg, rng).GenerateBoard()
}

// Status returns playing, won or lost
func (e *Engine) Status() core.GameStatus { return e.gs.Board.Status() }

// Started reports whether a reveal or flag has changed the current board
func (e *Engine) Started() bool { return e.gs.Started }

func (e *Engine) Lost() bool { return e.gs.Board.Lost }
func (e *Engine) Won() bool  { return e.gs.Board.Won }

// IsGameOver returns true when the board has been won or lost
func (e *Engine) IsGameOver() bool { return e.gs.Board.IsTerminal() }

// MinesRemaining is mines minus flags; it goes negative when over-flagged
func (e *Engine) MinesRemaining() int { return e.gs.Board.MinesRemaining() }

// Elapsed is the time since the first move, frozen once the game ends
func (e *Engine) Elapsed() time.Duration {
	return e.stateMachine.GetContext().ElapsedTime()
}

// Phase returns the current phase of the game state machine
func (e *Engine) Phase() states.GamePhase { return e.stateMachine.CurrentPhase() }

// PhaseHistory returns the phase transitions since the last reset
func (e *Engine) PhaseHistory() []states.Transition { return e.stateMachine.GetHistory() }

func (e *Engine) GameID() string { return e.gameID }
func (e *Engine) Rows() int      { return e.gs.Board.Rows }
func (e *Engine) Cols() int      { return e.gs.Board.Cols }
func (e *Engine) NumMines() int  { return e.gs.Board.NumMines }

// Stats returns input counters for the current board
func (e *Engine) Stats() GameStats { return e.gs.Stats }

// EventBus returns the bus the engine publishes on
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// LegalActionMask returns the effective reveal/flag mask for the current board
func (e *Engine) LegalActionMask() []bool {
	return e.legalMoves.GetLegalActionMask(e.gs.Board)
}

// RevealableCells lists cells where a reveal would change the board
func (e *Engine) RevealableCells() []core.Coordinate {
	return e.legalMoves.RevealableCells(e.gs.Board)
}
