package input

import (
	"context"
	"errors"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/rs/zerolog"
)

// Controller is the inbound boundary between the display and the game. It
// runs primary presses through the tap disambiguator and applies the
// resulting commands to the engine.
type Controller struct {
	engine *game.Engine
	tap    *TapDisambiguator
	logger zerolog.Logger
}

// NewController creates a controller driving engine
func NewController(engine *game.Engine, tap *TapDisambiguator, logger zerolog.Logger) *Controller {
	return &Controller{
		engine: engine,
		tap:    tap,
		logger: logger.With().Str("component", "InputController").Logger(),
	}
}

// OnPrimaryActivate handles a click or tap on a cell
func (c *Controller) OnPrimaryActivate(row, col int) {
	c.apply(c.tap.Primary(core.NewCoordinate(row, col)))
}

// OnSecondaryActivate handles a right click or long press on a cell
func (c *Controller) OnSecondaryActivate(row, col int) {
	c.apply(c.tap.Secondary(core.NewCoordinate(row, col)))
}

// OnRestart drops any held reveal and deals a new board
func (c *Controller) OnRestart() {
	c.tap.Cancel()
	if err := c.engine.Reset(context.Background()); err != nil {
		c.logger.Error().Err(err).Msg("Failed to restart game")
	}
}

// Tick fires a held reveal whose window has closed. Call once per frame.
func (c *Controller) Tick() {
	c.apply(c.tap.Tick())
}

// Pending returns the cell with a held reveal, for press feedback
func (c *Controller) Pending() (core.Coordinate, bool) {
	return c.tap.Pending()
}

func (c *Controller) apply(cmds []Command) {
	ctx := context.Background()
	for _, cmd := range cmds {
		var err error
		switch cmd.Kind {
		case CommandReveal:
			_, err = c.engine.Reveal(ctx, cmd.Cell.Row, cmd.Cell.Col)
		case CommandFlag:
			_, err = c.engine.ToggleFlag(ctx, cmd.Cell.Row, cmd.Cell.Col)
		}

		if err != nil {
			// Input is mapped from the board geometry, so this is a bug
			level := zerolog.ErrorLevel
			if errors.Is(err, core.ErrInvalidCoordinates) {
				level = zerolog.WarnLevel
			}
			c.logger.WithLevel(level).Err(err).
				Str("command", cmd.Kind.String()).
				Str("cell", cmd.Cell.String()).
				Msg("Command rejected")
		}
	}
}
