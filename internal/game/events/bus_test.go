package events

import (
	"bytes"
	"testing"
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	received := false
	var receivedEvent Event

	bus.SubscribeFunc(TypeGameStarted, func(e Event) {
		received = true
		receivedEvent = e
	})

	bus.Publish(NewGameStartedEvent("test-game", 8, 8, 10))

	assert.True(t, received, "Event handler should have been called")
	require.NotNil(t, receivedEvent)
	assert.Equal(t, TypeGameStarted, receivedEvent.Type())
	assert.Equal(t, "test-game", receivedEvent.GameID())
	assert.WithinDuration(t, time.Now(), receivedEvent.Timestamp(), time.Second)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	var order []int
	bus.SubscribeFunc(TypeFlagToggled, func(e Event) { order = append(order, 1) })
	bus.SubscribeFunc(TypeFlagToggled, func(e Event) { order = append(order, 2) })

	bus.Publish(NewFlagToggledEvent("test-game", core.NewCoordinate(1, 1), core.FlagFlagged, 1))

	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 2, bus.GetFuncHandlerCount(TypeFlagToggled))
}

func TestEventBus_SubscribeFunc_UniqueIDs(t *testing.T) {
	bus := NewEventBus()

	ids := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := bus.SubscribeFunc(TypeGameWon, func(Event) {})
		assert.False(t, ids[id], "duplicate handler id %q", id)
		ids[id] = true
	}
}

func TestEventBus_UnsubscribeFunc(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	id := bus.SubscribeFunc(TypeGameLost, func(Event) { calls++ })
	bus.SubscribeFunc(TypeGameLost, func(Event) { calls += 10 })

	bus.Unsubscribe(id)
	bus.Publish(NewGameLostEvent("g", core.NewCoordinate(0, 0), time.Second))

	assert.Equal(t, 10, calls)
	assert.Equal(t, 1, bus.GetFuncHandlerCount(TypeGameLost))
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string { return ts.id }

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()

	subscriber := &TestSubscriber{
		id: "test-subscriber",
		interestedTypes: map[string]bool{
			TypeGameStarted: true,
			TypeGameWon:     true,
		},
	}
	bus.Subscribe(subscriber)
	assert.Equal(t, 1, bus.GetSubscriberCount())

	bus.Publish(NewGameStartedEvent("test-game", 8, 8, 10))
	bus.Publish(NewCellRevealedEvent("test-game", core.NewCoordinate(0, 0), core.RevealResult{Outcome: core.RevealRevealed}))
	bus.Publish(NewGameWonEvent("test-game", time.Minute))

	require.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, TypeGameStarted, subscriber.receivedEvents[0].Type())
	assert.Equal(t, TypeGameWon, subscriber.receivedEvents[1].Type())

	bus.Unsubscribe(subscriber.ID())
	bus.Publish(NewGameStartedEvent("test-game", 8, 8, 10))

	assert.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, 0, bus.GetSubscriberCount())
}

type panickingSubscriber struct{}

func (panickingSubscriber) ID() string               { return "panics" }
func (panickingSubscriber) HandleEvent(Event)        { panic("boom") }
func (panickingSubscriber) InterestedIn(string) bool { return true }

func TestEventBus_PanickingSubscriber_OthersStillNotified(t *testing.T) {
	var buf bytes.Buffer
	bus := NewEventBusWithLogger(zerolog.New(&buf))

	good := &TestSubscriber{id: "good"}
	bus.Subscribe(panickingSubscriber{})
	bus.Subscribe(good)
	funcCalled := false
	bus.SubscribeFunc(TypeGameReset, func(Event) { panic("handler boom") })
	bus.SubscribeFunc(TypeGameReset, func(Event) { funcCalled = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewGameResetEvent("g", core.StatusLost))
	})
	assert.Len(t, good.receivedEvents, 1)
	assert.True(t, funcCalled)
	assert.Contains(t, buf.String(), "Subscriber panicked while handling event")
	assert.Contains(t, buf.String(), "Function handler panicked while handling event")
}

func TestEventConstructors(t *testing.T) {
	res := core.RevealResult{
		Outcome: core.RevealRevealed,
		Cells:   []core.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}},
	}
	revealed := NewCellRevealedEvent("g", core.NewCoordinate(0, 0), res)
	assert.Equal(t, TypeCellRevealed, revealed.Type())
	assert.Equal(t, 3, revealed.Opened)

	transition := NewStateTransitionEvent("g", "NotStarted", "Playing", "first move")
	assert.Equal(t, TypeStateTransition, transition.Type())
	assert.Equal(t, "Playing", transition.ToPhase)

	reset := NewGameResetEvent("g", core.StatusWon)
	assert.Equal(t, core.StatusWon, reset.PreviousStatus)
}
