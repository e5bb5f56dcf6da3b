package gameserver

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/testutil"
)

// mockStreamServer implements WatchGameServer for testing
type mockStreamServer struct {
	grpc.ServerStream
	ctx     context.Context
	mu      sync.RWMutex
	updates []*structpb.Struct
}

func (m *mockStreamServer) Send(update *structpb.Struct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, update)
	return nil
}

func (m *mockStreamServer) Context() context.Context {
	return m.ctx
}

func (m *mockStreamServer) getUpdates() []*structpb.Struct {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*structpb.Struct, len(m.updates))
	copy(result, m.updates)
	return result
}

func eventTypes(update *structpb.Struct) []string {
	var types []string
	for _, v := range update.GetFields()[fieldEvents].GetListValue().GetValues() {
		types = append(types, v.GetStringValue())
	}
	return types
}

func TestWatchGame_OverGRPC(t *testing.T) {
	env := setupTestServer(t, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	gameID := createLayoutGame(t, env, cornerMine...)

	stream, err := env.client.WatchGame(ctx, request(t, map[string]interface{}{"game_id": gameID}))
	require.NoError(t, err)

	initial, err := stream.Recv()
	require.NoError(t, err)
	assert.Empty(t, eventTypes(initial))
	assert.False(t, decodeGame(t, initial).Started)

	_, err = env.client.Reveal(ctx, request(t, map[string]interface{}{"game_id": gameID, "row": 0, "col": 1}))
	require.NoError(t, err)

	update, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, []string{
		events.TypeStateTransition,
		events.TypeGameStarted,
		events.TypeCellRevealed,
	}, eventTypes(update))
	snap := decodeGame(t, update)
	assert.True(t, snap.Started)
	assert.Equal(t, 1, snap.RevealedCount)

	// Deleting the game ends the stream cleanly
	_, err = env.client.DeleteGame(ctx, request(t, map[string]interface{}{"game_id": gameID}))
	require.NoError(t, err)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWatchGame_UnknownGame(t *testing.T) {
	env := setupTestServer(t, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := env.client.WatchGame(ctx, request(t, map[string]interface{}{"game_id": "missing"}))
	require.NoError(t, err)

	_, err = stream.Recv()
	requireCode(t, err, codes.NotFound)
}

func TestWatchGame_OnlyChangesAreBroadcast(t *testing.T) {
	gm := NewGameManager(ManagerConfig{Logger: testutil.NopLogger()})
	defer gm.Stop()
	server := NewServer(gm, testutil.NopLogger())

	rows, cols, mines := testutil.MinesFromLayout(t, cornerMine...)
	g, err := gm.CreateGame(context.Background(), GameOptions{Rows: rows, Cols: cols, Layout: mines})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stream := &mockStreamServer{ctx: ctx}
	watchReq := request(t, map[string]interface{}{"game_id": g.id})
	streamErr := make(chan error, 1)
	go func() {
		streamErr <- server.WatchGame(watchReq, stream)
	}()

	require.Eventually(t, func() bool { return len(stream.getUpdates()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return g.streamManager.GetClientCount() == 1 }, time.Second, 5*time.Millisecond)

	target := request(t, map[string]interface{}{"game_id": g.id, "row": 0, "col": 0})
	_, err = server.ToggleFlag(context.Background(), target)
	require.NoError(t, err)
	// Revealing a flagged cell changes nothing, so watchers hear nothing
	_, err = server.Reveal(context.Background(), target)
	require.NoError(t, err)
	_, err = server.ToggleFlag(context.Background(), target)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(stream.getUpdates()) == 3 }, time.Second, 5*time.Millisecond)
	updates := stream.getUpdates()
	assert.Equal(t, []string{events.TypeStateTransition, events.TypeGameStarted, events.TypeFlagToggled}, eventTypes(updates[1]))
	assert.Equal(t, []string{events.TypeFlagToggled}, eventTypes(updates[2]))

	cancel()
	select {
	case err := <-streamErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WatchGame did not return after the client went away")
	}
	assert.Equal(t, 0, g.streamManager.GetClientCount())
}

// A board stamped past year 9999 has no wire timestamp, so the update cannot
// be encoded. The move still succeeds and the failure is logged.
func TestWatchGame_EncodeFailureIsLogged(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(10001, time.January, 1, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	gm := NewGameManager(ManagerConfig{Clock: mock, Logger: zerolog.New(&buf)})
	t.Cleanup(gm.Stop)

	g, err := gm.CreateGame(context.Background(), smallGame())
	require.NoError(t, err)
	client, _ := g.watch()

	res, err := g.run(mock.Now(), func(e *game.Engine) error {
		_, err := e.ToggleFlag(context.Background(), 0, 0)
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.events)
	assert.Equal(t, 1, res.snapshot.FlagCount)

	select {
	case update := <-client.Updates():
		t.Fatalf("unexpected update %v", update)
	default:
	}

	logged := buf.String()
	assert.Contains(t, logged, `"level":"error"`)
	assert.Contains(t, logged, "Failed to encode watch update")
	assert.Contains(t, logged, g.id)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(testutil.NopLogger())
	a := sm.RegisterClient()
	b := sm.RegisterClient()
	assert.NotEqual(t, a.id, b.id)
	assert.Equal(t, 2, sm.GetClientCount())

	update := &structpb.Struct{}
	sm.BroadcastToAll(update)
	assert.Same(t, update, <-a.Updates())
	assert.Same(t, update, <-b.Updates())

	// A full buffer drops instead of blocking
	for i := 0; i < streamBufferSize+5; i++ {
		sm.BroadcastToAll(update)
	}
	assert.Len(t, a.Updates(), streamBufferSize)

	sm.UnregisterClient(a.id)
	sm.UnregisterClient(a.id)
	assert.Equal(t, 1, sm.GetClientCount())

	sm.CloseAll()
	assert.Equal(t, 0, sm.GetClientCount())
	for range b.Updates() {
	}
	_, open := <-b.Updates()
	assert.False(t, open)
}
