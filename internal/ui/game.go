package ui

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/minesweeper/internal/common"
	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/input"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/renderer"
)

// UI configuration functions
func TileSize() int {
	return config.Get().UI.Game.TileSize
}

func HeaderHeight() int {
	return config.Get().UI.Game.HeaderHeight
}

// UIGame holds the game engine instance and UI-specific state
type UIGame struct {
	engine     *game.Engine
	controller *input.Controller
	tap        *input.TapDisambiguator
	handler    *input.Handler
	logger     zerolog.Logger

	boardRenderer   *renderer.BoardRenderer
	overlayRenderer *renderer.OverlayRenderer
	headerRenderer  *renderer.HeaderRenderer
	defaultFont     font.Face
	palette         common.Palette

	tileSize        int
	headerHeight    int
	showStartScreen bool
	showMines       bool
	showCoordinates bool

	// Set from the config watcher goroutine, consumed by Update
	reloadRequested atomic.Bool
}

// NewUIGame creates a new Ebitengine game instance for engine.
func NewUIGame(engine *game.Engine, clk clock.Clock, logger zerolog.Logger) (*UIGame, error) {
	if engine == nil {
		return nil, fmt.Errorf("ui: engine is required")
	}
	if clk == nil {
		clk = clock.New()
	}

	cfg := config.Get()
	g := &UIGame{
		engine:          engine,
		logger:          logger.With().Str("component", "UI").Logger(),
		defaultFont:     basicfont.Face7x13,
		showStartScreen: cfg.UI.Game.ShowStartScreen,
	}

	g.tap = input.NewTapDisambiguator(clk, cfg.Game.Input.DoubleTapDelay())
	g.controller = input.NewController(engine, g.tap, logger)
	g.handler = input.NewHandler(clk, TileSize(), engine.Rows(), engine.Cols())

	g.boardRenderer = renderer.NewBoardRenderer(TileSize(), g.defaultFont, common.DefaultPalette)
	g.overlayRenderer = renderer.NewOverlayRenderer(TileSize())
	g.headerRenderer = renderer.NewHeaderRenderer(HeaderHeight(), g.defaultFont, common.DefaultPalette)

	g.applyConfig(cfg)
	return g, nil
}

// RequestReload asks the game to re-read configuration on its next update.
// It is safe to call from any goroutine.
func (g *UIGame) RequestReload() {
	g.reloadRequested.Store(true)
}

// applyConfig re-reads the presentation settings. Board dimensions only
// change with a new engine.
func (g *UIGame) applyConfig(cfg *config.Config) {
	g.tileSize = cfg.UI.Game.TileSize
	g.headerHeight = cfg.UI.Game.HeaderHeight
	g.palette = common.NewPalette(cfg.Colors)
	g.showMines = cfg.Development.ShowMines
	g.showCoordinates = cfg.Development.ShowCoordinates

	g.boardRenderer.SetTileSize(g.tileSize)
	g.boardRenderer.SetPalette(g.palette)
	g.overlayRenderer.SetTileSize(g.tileSize)
	g.headerRenderer.SetHeight(g.headerHeight)
	g.headerRenderer.SetPalette(g.palette)

	g.handler.SetTileSize(g.tileSize)
	g.handler.SetBoardOrigin(0, g.headerHeight)
	width, _ := g.Layout(0, 0)
	g.handler.SetFaceRect(renderer.FaceRect(width, g.headerHeight))

	g.tap.SetDelay(cfg.Game.Input.DoubleTapDelay())
}

// Update proceeds the game state.
func (g *UIGame) Update() error {
	if g.reloadRequested.CompareAndSwap(true, false) {
		g.applyConfig(config.Get())
		ebiten.SetWindowSize(g.Layout(0, 0))
		g.logger.Info().Int("tile_size", g.tileSize).Msg("Applied configuration change")
	}

	if g.showStartScreen {
		if anyPress() {
			g.showStartScreen = false
		}
		return nil
	}

	pollInput(g.handler, g.controller)
	g.controller.Tick()

	g.overlayRenderer.SetHover(g.handler.HoveredCell())
	g.overlayRenderer.SetPending(g.controller.Pending())
	return nil
}

// Draw renders the game screen.
func (g *UIGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)

	snap := g.snapshot()
	width, height := g.Layout(0, 0)

	_, pressing := g.controller.Pending()
	g.headerRenderer.Draw(screen, &snap, width, pressing)
	g.boardRenderer.Draw(screen, &snap, 0, g.headerHeight)
	g.overlayRenderer.Draw(screen, &snap, 0, g.headerHeight)

	if g.showCoordinates {
		if cell, ok := g.handler.HoveredCell(); ok {
			ebitenutil.DebugPrintAt(screen, cell.String(), 2, height-16)
		}
	}

	if g.showStartScreen {
		g.drawStartScreen(screen, width, height)
	}
}

func (g *UIGame) snapshot() game.Snapshot {
	if g.showMines {
		return g.engine.DebugSnapshot()
	}
	return g.engine.Snapshot()
}

func (g *UIGame) drawStartScreen(screen *ebiten.Image, width, height int) {
	vector.DrawFilledRect(screen, 0, 0, float32(width), float32(height), common.OverlayColor, false)

	lines := []string{
		"MINESWEEPER",
		"",
		fmt.Sprintf("%dx%d, %d mines", g.engine.Rows(), g.engine.Cols(), g.engine.NumMines()),
		"",
		"Click: reveal",
		"Double click / right click: flag",
		"Tap: reveal  Double tap / hold: flag",
		"R or face: restart",
		"",
		"Click to start",
	}

	lineHeight := g.defaultFont.Metrics().Height.Ceil() + 4
	y := (height - len(lines)*lineHeight) / 2
	for _, line := range lines {
		b := text.BoundString(g.defaultFont, line)
		text.Draw(screen, line, g.defaultFont, (width-b.Dx())/2, y, color.White)
		y += lineHeight
	}
}

// Layout defines the Ebitengine screen size: the board plus the header.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.engine.Cols() * g.tileSize, g.headerHeight + g.engine.Rows()*g.tileSize
}
