package gameserver

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
)

// Defaults used when ManagerConfig leaves a field zero
const (
	defaultIdleTimeout     = 30 * time.Minute
	defaultCleanupInterval = time.Minute
)

// ManagerConfig configures a GameManager
type ManagerConfig struct {
	// MaxGames caps concurrent sessions; 0 means unlimited
	MaxGames int
	// MaxBoardCells caps rows*cols of a new board; 0 or anything above
	// mapgen.MaxCells means mapgen.MaxCells
	MaxBoardCells   int
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	Clock           clock.Clock
	Logger          zerolog.Logger
}

// GameOptions describes a board to create. All zero means the configured
// default board.
type GameOptions struct {
	Rows  int
	Cols  int
	Mines int
	// Seed drives mine placement; 0 picks one from the clock
	Seed int64
	// Layout fixes the mine positions instead of placing them at random
	Layout []core.Coordinate
}

// eventCollector records the event types an engine publishes during one
// operation so watchers learn what happened.
type eventCollector struct {
	id    string
	types []string
}

func (c *eventCollector) ID() string                 { return c.id }
func (c *eventCollector) InterestedIn(_ string) bool { return true }
func (c *eventCollector) HandleEvent(e events.Event) { c.types = append(c.types, e.Type()) }

func (c *eventCollector) drain() []string {
	types := c.types
	c.types = nil
	return types
}

type gameInstance struct {
	id     string
	engine *game.Engine
	mu     sync.Mutex // serializes every engine call for this game

	// Board dimensions survive restarts, so they are readable without mu
	rows, cols int

	collector *eventCollector

	// Activity tracking for cleanup
	createdAt    time.Time
	lastActivity time.Time

	idempotencyManager *IdempotencyManager
	streamManager      *StreamManager
	logger             zerolog.Logger
}

// SessionStats summarizes the sessions a manager holds
type SessionStats struct {
	Active     int
	NotStarted int
	Playing    int
	Won        int
	Lost       int
	Watchers   int
	Created    int64
	Expired    int64
}

// GameManager manages all active game sessions
type GameManager struct {
	mu      sync.RWMutex
	games   map[string]*gameInstance
	created int64
	expired int64

	cfg    ManagerConfig
	clock  clock.Clock
	logger zerolog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewGameManager creates a game manager and starts its cleanup goroutine.
// Call Stop to release it.
func NewGameManager(cfg ManagerConfig) *GameManager {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.MaxBoardCells <= 0 || cfg.MaxBoardCells > mapgen.MaxCells {
		cfg.MaxBoardCells = mapgen.MaxCells
	}

	gm := &GameManager{
		games:  make(map[string]*gameInstance),
		cfg:    cfg,
		clock:  cfg.Clock,
		logger: cfg.Logger.With().Str("component", "GameManager").Logger(),
		stopCh: make(chan struct{}),
	}

	ticker := gm.clock.Ticker(cfg.CleanupInterval)
	gm.wg.Add(1)
	go gm.runCleanup(ticker)

	return gm
}

// CreateGame starts a new session
func (gm *GameManager) CreateGame(ctx context.Context, opts GameOptions) (*gameInstance, error) {
	// Cheap early rejection; the insert below re-checks under the write lock
	if gm.atCapacity() {
		return nil, gm.capacityError()
	}
	if err := gm.checkBoardSize(opts); err != nil {
		return nil, err
	}

	gameID := uuid.NewString()
	seed := opts.Seed
	if seed == 0 {
		seed = gm.clock.Now().UnixNano()
	}

	engine, err := game.NewEngine(ctx, game.GameConfig{
		Rows:     opts.Rows,
		Cols:     opts.Cols,
		NumMines: opts.Mines,
		Mines:    opts.Layout,
		Rng:      rand.New(rand.NewSource(seed)),
		Logger:   gm.cfg.Logger,
		GameID:   gameID,
		Clock:    gm.clock,
	})
	if err != nil {
		return nil, err
	}

	collector := &eventCollector{id: "session-events-" + gameID}
	engine.EventBus().Subscribe(collector)

	now := gm.clock.Now()
	g := &gameInstance{
		id:                 gameID,
		engine:             engine,
		rows:               engine.Rows(),
		cols:               engine.Cols(),
		collector:          collector,
		createdAt:          now,
		lastActivity:       now,
		idempotencyManager: NewIdempotencyManager(gm.clock),
		streamManager:      NewStreamManager(gm.logger.With().Str("game_id", gameID).Logger()),
		logger:             gm.logger.With().Str("game_id", gameID).Logger(),
	}

	gm.mu.Lock()
	if gm.cfg.MaxGames > 0 && len(gm.games) >= gm.cfg.MaxGames {
		gm.mu.Unlock()
		return nil, gm.capacityError()
	}
	gm.games[gameID] = g
	gm.created++
	active := len(gm.games)
	gm.mu.Unlock()

	gm.logger.Info().
		Str("game_id", gameID).
		Int("rows", engine.Rows()).
		Int("cols", engine.Cols()).
		Int("mines", engine.NumMines()).
		Int64("seed", seed).
		Int("active_games", active).
		Msg("Game created")

	return g, nil
}

func (gm *GameManager) atCapacity() bool {
	if gm.cfg.MaxGames <= 0 {
		return false
	}
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games) >= gm.cfg.MaxGames
}

// checkBoardSize rejects boards above MaxBoardCells before any cell is
// allocated. Each side is bounded first so the product cannot overflow.
func (gm *GameManager) checkBoardSize(opts GameOptions) error {
	limit := gm.cfg.MaxBoardCells
	if opts.Rows > limit || opts.Cols > limit || opts.Rows*opts.Cols > limit {
		gm.logger.Warn().
			Int("rows", opts.Rows).
			Int("cols", opts.Cols).
			Int("max_board_cells", limit).
			Msg("Rejecting game creation - board too large")
		return fmt.Errorf("%w: %dx%d board exceeds %d cells",
			core.ErrInvalidConfiguration, opts.Rows, opts.Cols, limit)
	}
	return nil
}

func (gm *GameManager) capacityError() error {
	gm.logger.Warn().
		Int("max_games", gm.cfg.MaxGames).
		Msg("Rejecting game creation - server at capacity")
	return fmt.Errorf("%w: %d games active", ErrServerAtCapacity, gm.cfg.MaxGames)
}

// GetGame returns the session with the given ID
func (gm *GameManager) GetGame(gameID string) (*gameInstance, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	g, exists := gm.games[gameID]
	return g, exists
}

// DeleteGame removes a session and closes its watchers. It reports whether
// the session existed.
func (gm *GameManager) DeleteGame(gameID string) bool {
	gm.mu.Lock()
	g, exists := gm.games[gameID]
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if !exists {
		return false
	}
	g.streamManager.CloseAll()

	gm.logger.Info().Str("game_id", gameID).Msg("Game deleted")
	return true
}

// GetActiveGames returns the number of live sessions
func (gm *GameManager) GetActiveGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// Stats summarizes every live session
func (gm *GameManager) Stats() SessionStats {
	gm.mu.RLock()
	refs := make([]*gameInstance, 0, len(gm.games))
	for _, g := range gm.games {
		refs = append(refs, g)
	}
	stats := SessionStats{
		Active:  len(gm.games),
		Created: gm.created,
		Expired: gm.expired,
	}
	gm.mu.RUnlock()

	for _, g := range refs {
		g.mu.Lock()
		started := g.engine.Started()
		st := g.engine.Status()
		g.mu.Unlock()

		switch {
		case st == core.StatusWon:
			stats.Won++
		case st == core.StatusLost:
			stats.Lost++
		case started:
			stats.Playing++
		default:
			stats.NotStarted++
		}
		stats.Watchers += g.streamManager.GetClientCount()
	}
	return stats
}

// Stop ends the cleanup goroutine and closes every watcher. It is safe to
// call more than once.
func (gm *GameManager) Stop() {
	gm.stopOnce.Do(func() {
		close(gm.stopCh)
		gm.wg.Wait()

		gm.mu.Lock()
		for _, g := range gm.games {
			g.streamManager.CloseAll()
		}
		gm.mu.Unlock()
	})
}

func (gm *GameManager) runCleanup(ticker *clock.Ticker) {
	defer gm.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-gm.stopCh:
			return
		case <-ticker.C:
			gm.cleanupGames()
		}
	}
}

// cleanupGames removes sessions idle for longer than the idle timeout
func (gm *GameManager) cleanupGames() {
	// Collect references first so no game lock is taken under the manager lock
	gm.mu.RLock()
	gameRefs := make([]*gameInstance, 0, len(gm.games))
	for _, g := range gm.games {
		gameRefs = append(gameRefs, g)
	}
	gm.mu.RUnlock()

	now := gm.clock.Now()
	var toDelete []*gameInstance

	for _, g := range gameRefs {
		g.mu.Lock()
		inactive := now.Sub(g.lastActivity)
		createdAt := g.createdAt
		g.mu.Unlock()

		if inactive > gm.cfg.IdleTimeout {
			toDelete = append(toDelete, g)
			gm.logger.Info().
				Str("game_id", g.id).
				Dur("age", now.Sub(createdAt)).
				Dur("inactive", inactive).
				Msg("Cleaning up idle game")
		}
	}

	if len(toDelete) == 0 {
		return
	}

	for _, g := range toDelete {
		g.streamManager.CloseAll()
	}

	gm.mu.Lock()
	for _, g := range toDelete {
		delete(gm.games, g.id)
	}
	gm.expired += int64(len(toDelete))
	remaining := len(gm.games)
	gm.mu.Unlock()

	gm.logger.Info().
		Int("cleaned", len(toDelete)).
		Int("remaining", remaining).
		Msg("Game cleanup completed")
}

// operationResult is what one serialized engine call produced
type operationResult struct {
	snapshot game.Snapshot
	events   []string
}

// run executes fn with the game locked, then snapshots the board and
// broadcasts to watchers when the board changed.
func (g *gameInstance) run(now time.Time, fn func(e *game.Engine) error) (operationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runLocked(now, fn)
}

// runKeyed is run for requests carrying an idempotency key. The cache
// lookup, the engine call and the store of the built reply share one hold of
// g.mu, so concurrent requests with the same key apply fn exactly once.
func (g *gameInstance) runKeyed(now time.Time, method, key string,
	fn func(e *game.Engine) error,
	reply func(res operationResult) (*structpb.Struct, error),
) (*structpb.Struct, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cached := g.idempotencyManager.Check(method, key); cached != nil {
		g.lastActivity = now
		g.logger.Debug().
			Str("method", method).
			Str("idempotency_key", key).
			Msg("Returning cached response for idempotent request")
		return cached, nil
	}

	res, err := g.runLocked(now, fn)
	if err != nil {
		return nil, err
	}
	resp, err := reply(res)
	if err != nil {
		return nil, err
	}
	g.idempotencyManager.Store(method, key, resp)
	return resp, nil
}

func (g *gameInstance) runLocked(now time.Time, fn func(e *game.Engine) error) (operationResult, error) {
	g.lastActivity = now
	err := fn(g.engine)
	res := operationResult{
		snapshot: g.engine.Snapshot(),
		events:   g.collector.drain(),
	}
	if err != nil {
		return res, err
	}

	if len(res.events) > 0 && g.streamManager.GetClientCount() > 0 {
		update, convErr := watchUpdate(res)
		if convErr != nil {
			g.logger.Error().Err(convErr).
				Strs("events", res.events).
				Msg("Failed to encode watch update")
			return res, nil
		}
		g.streamManager.BroadcastToAll(update)
	}
	return res, nil
}

// snapshot reads the board without counting as activity
func (g *gameInstance) snapshot(debug bool) game.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if debug {
		return g.engine.DebugSnapshot()
	}
	return g.engine.Snapshot()
}

// touch marks the session as active
func (g *gameInstance) touch(now time.Time) {
	g.mu.Lock()
	g.lastActivity = now
	g.mu.Unlock()
}
