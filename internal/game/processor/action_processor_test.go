package processor

import (
	"context"
	"testing"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) { p.events = append(p.events, e) }

type unknownAction struct{ core.RevealAction }

func newBoard(t *testing.T) *core.Board {
	t.Helper()
	return testutil.BoardFromLayout(t,
		"...",
		"...",
		"..*",
	)
}

func TestProcessAction_Reveal_PublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	ap := NewActionProcessor(zerolog.Nop(), pub)
	board := newBoard(t)

	res, err := ap.ProcessAction(context.Background(), "g1", board, &core.RevealAction{Row: 1, Col: 1})
	require.NoError(t, err)

	assert.True(t, res.Changed())
	assert.Equal(t, core.RevealRevealed, res.Reveal.Outcome)
	require.Len(t, pub.events, 1)
	ev, ok := pub.events[0].(*events.CellRevealedEvent)
	require.True(t, ok)
	assert.Equal(t, "g1", ev.GameID())
	assert.Equal(t, core.NewCoordinate(1, 1), ev.Target)
}

func TestProcessAction_Flag_PublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	ap := NewActionProcessor(zerolog.Nop(), pub)
	board := newBoard(t)

	res, err := ap.ProcessAction(context.Background(), "g1", board, &core.FlagAction{Row: 2, Col: 2})
	require.NoError(t, err)

	assert.Equal(t, core.FlagFlagged, res.Flag)
	require.Len(t, pub.events, 1)
	ev := pub.events[0].(*events.FlagToggledEvent)
	assert.Equal(t, 1, ev.FlagCount)
}

func TestProcessAction_NoOp_NoEvent(t *testing.T) {
	pub := &recordingPublisher{}
	ap := NewActionProcessor(zerolog.Nop(), pub)
	board := newBoard(t)

	_, err := ap.ProcessAction(context.Background(), "g1", board, &core.FlagAction{Row: 0, Col: 0})
	require.NoError(t, err)
	pub.events = nil

	res, err := ap.ProcessAction(context.Background(), "g1", board, &core.RevealAction{Row: 0, Col: 0})
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Empty(t, pub.events)
}

func TestProcessAction_Errors(t *testing.T) {
	ap := NewActionProcessor(zerolog.Nop(), nil)
	board := newBoard(t)

	t.Run("out of bounds", func(t *testing.T) {
		_, err := ap.ProcessAction(context.Background(), "g1", board, &core.RevealAction{Row: 3, Col: 0})
		assert.ErrorIs(t, err, core.ErrInvalidCoordinates)
		var ae *core.ActionError
		assert.ErrorAs(t, err, &ae)
	})

	t.Run("nil action", func(t *testing.T) {
		_, err := ap.ProcessAction(context.Background(), "g1", board, nil)
		assert.ErrorIs(t, err, core.ErrUnknownAction)
	})

	t.Run("unknown action type", func(t *testing.T) {
		_, err := ap.ProcessAction(context.Background(), "g1", board, &unknownAction{})
		assert.ErrorIs(t, err, core.ErrUnknownAction)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ap.ProcessAction(ctx, "g1", board, &core.RevealAction{Row: 0, Col: 0})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, board.RevealedCount)
	})
}
