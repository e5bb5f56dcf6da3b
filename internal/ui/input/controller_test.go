package input

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestController builds a 3x3 game with one mine in the top-left corner
func newTestController(t *testing.T) (*Controller, *game.Engine, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	engine, err := game.NewEngine(context.Background(), game.GameConfig{
		Rows:   3,
		Cols:   3,
		Mines:  []core.Coordinate{{Row: 0, Col: 0}},
		Clock:  mock,
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	return NewController(engine, NewTapDisambiguator(mock, testDelay), zerolog.Nop()), engine, mock
}

func cellView(t *testing.T, e *game.Engine, row, col int) game.CellView {
	t.Helper()
	snap := e.Snapshot()
	cv, ok := snap.Cell(row, col)
	require.True(t, ok)
	return cv
}

func TestController_SinglePress_RevealsAfterDelay(t *testing.T) {
	c, e, mock := newTestController(t)

	c.OnPrimaryActivate(0, 1)
	c.Tick()
	assert.False(t, e.Started(), "reveal is held back")

	mock.Add(testDelay)
	c.Tick()
	assert.True(t, cellView(t, e, 0, 1).IsRevealed)
	assert.True(t, e.Started())
}

func TestController_DoublePress_FlagsWithoutRevealing(t *testing.T) {
	c, e, mock := newTestController(t)

	c.OnPrimaryActivate(0, 0)
	mock.Add(testDelay / 2)
	c.OnPrimaryActivate(0, 0)

	mock.Add(time.Second)
	c.Tick()

	cv := cellView(t, e, 0, 0)
	assert.True(t, cv.IsFlagged)
	assert.False(t, cv.IsRevealed)
	assert.False(t, e.Lost(), "suppressed reveal of the mine must never fire")
	assert.Equal(t, 0, e.MinesRemaining())
}

func TestController_Secondary_FlagsImmediately(t *testing.T) {
	c, e, _ := newTestController(t)

	c.OnSecondaryActivate(2, 2)
	assert.True(t, cellView(t, e, 2, 2).IsFlagged)

	c.OnSecondaryActivate(2, 2)
	assert.False(t, cellView(t, e, 2, 2).IsFlagged)
}

func TestController_Restart_DropsPendingReveal(t *testing.T) {
	c, e, mock := newTestController(t)

	c.OnSecondaryActivate(1, 1)
	c.OnPrimaryActivate(2, 2)
	c.OnRestart()

	_, pending := c.Pending()
	assert.False(t, pending)

	mock.Add(time.Second)
	c.Tick()
	assert.False(t, e.Started())
	assert.Equal(t, 1, e.MinesRemaining())
	assert.False(t, cellView(t, e, 1, 1).IsFlagged)
}

func TestController_OutOfBounds_IsLoggedNotApplied(t *testing.T) {
	c, e, _ := newTestController(t)

	c.OnSecondaryActivate(9, 9)
	assert.False(t, e.Started())
}
