package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
	"github.com/mitchelldurbincs/minesweeper/internal/game/processor"
	"github.com/mitchelldurbincs/minesweeper/internal/game/rules"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
	"github.com/rs/zerolog"
)

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	mapCfg := mapgen.MapConfig{
		Rows:     ei.config.Rows,
		Cols:     ei.config.Cols,
		NumMines: ei.config.NumMines,
	}
	board, err := generateBoard(mapCfg, ei.config.Mines, ei.config.Rng)
	if err != nil {
		ei.logger.Error().Err(err).
			Int("rows", mapCfg.Rows).
			Int("cols", mapCfg.Cols).
			Int("mines", mapCfg.NumMines).
			Msg("Board generation failed")
		return nil, fmt.Errorf("board generation failed: %w", err)
	}

	engine := ei.createEngine(mapCfg, board)
	ei.setupEventHandling(engine)

	ei.logger.Info().
		Int("rows", mapCfg.Rows).
		Int("cols", mapCfg.Cols).
		Int("mines", mapCfg.NumMines).
		Bool("fixed_layout", ei.config.Mines != nil).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills in missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}
	ei.logger = ei.logger.With().Str("game_id", ei.config.GameID).Logger()

	if ei.config.Clock == nil {
		ei.config.Clock = clock.New()
	}

	if ei.config.Mines != nil {
		ei.config.NumMines = len(ei.config.Mines)
		ei.config.Mines = append([]core.Coordinate(nil), ei.config.Mines...)
	} else if ei.config.Rows == 0 && ei.config.Cols == 0 && ei.config.NumMines == 0 {
		ei.config.Rows = DefaultRows()
		ei.config.Cols = DefaultCols()
		ei.config.NumMines = DefaultMines()
		ei.logger.Debug().Msg("No board size provided, using configured defaults")
	}
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(mapCfg mapgen.MapConfig, board *core.Board) *Engine {
	eventBus := ei.config.EventBus
	if eventBus == nil {
		eventBus = events.NewEventBusWithLogger(ei.logger)
	}

	gameContext := states.NewGameContext(ei.config.GameID, ei.config.Clock, ei.logger)

	return &Engine{
		gs:              &GameState{Board: board},
		rng:             ei.config.Rng,
		mapConfig:       mapCfg,
		fixedMines:      ei.config.Mines,
		logger:          ei.logger,
		actionProcessor: processor.NewActionProcessor(ei.logger, eventBus),
		winCondition:    rules.NewWinConditionChecker(ei.logger),
		legalMoves:      rules.NewLegalMoveCalculator(),
		eventBus:        eventBus,
		gameID:          ei.config.GameID,
		stateMachine:    states.NewStateMachine(gameContext, eventBus),
		clock:           ei.config.Clock,
	}
}

// setupEventHandling attaches the event logger when requested
func (ei *EngineInitializer) setupEventHandling(engine *Engine) {
	if !ei.config.LogEvents {
		return
	}
	logSub := subscribers.NewLoggerSubscriber("event-logger-"+engine.gameID, ei.logger, zerolog.DebugLevel)
	engine.eventBus.Subscribe(logSub)
}
