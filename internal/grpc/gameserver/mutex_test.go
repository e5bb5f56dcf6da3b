package gameserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/minesweeper/internal/testutil"
)

// TestNoDeadlock runs cleanup, stats and moves against the same games at once
func TestNoDeadlock(t *testing.T) {
	gm, _ := newTestManager(t, ManagerConfig{})
	server := NewServer(gm, testutil.NopLogger())

	var ids []string
	for i := 0; i < 5; i++ {
		g, err := gm.CreateGame(context.Background(), GameOptions{Rows: 8, Cols: 8, Mines: 10, Seed: int64(i + 1)})
		require.NoError(t, err)
		ids = append(ids, g.id)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for row := 0; row < 8; row++ {
			wg.Add(1)
			go func(id string, row int) {
				defer wg.Done()
				for col := 0; col < 8; col++ {
					req := request(t, map[string]interface{}{"game_id": id, "row": row, "col": col})
					if (row+col)%2 == 0 {
						_, _ = server.ToggleFlag(context.Background(), req)
					} else {
						_, _ = server.Reveal(context.Background(), req)
					}
				}
			}(id, row)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			gm.cleanupGames()
			_ = gm.Stats()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Deadlock detected - operations did not complete within 5 seconds")
	}
}

// TestConcurrentFlagToggles checks the per-game mutex keeps counters exact
func TestConcurrentFlagToggles(t *testing.T) {
	gm, _ := newTestManager(t, ManagerConfig{})
	server := NewServer(gm, testutil.NopLogger())

	g, err := gm.CreateGame(context.Background(), GameOptions{Rows: 10, Cols: 10, Mines: 10, Seed: 3})
	require.NoError(t, err)

	// Every cell is toggled twice, so all flags end up cleared
	var wg sync.WaitGroup
	for pass := 0; pass < 2; pass++ {
		for row := 0; row < 10; row++ {
			wg.Add(1)
			go func(row int) {
				defer wg.Done()
				for col := 0; col < 10; col++ {
					_, err := server.ToggleFlag(context.Background(), request(t, map[string]interface{}{
						"game_id": g.id, "row": row, "col": col,
					}))
					assert.NoError(t, err)
				}
			}(row)
		}
	}
	wg.Wait()

	snap := g.snapshot(false)
	assert.Equal(t, 0, snap.FlagCount)
	assert.Equal(t, 10, snap.MinesRemaining)
}

// TestConcurrentSameIdempotencyKey sends one keyed toggle from several
// goroutines at once. Only the first may reach the engine; the rest replay its
// reply, so the cell ends up flagged rather than toggled back and forth.
func TestConcurrentSameIdempotencyKey(t *testing.T) {
	gm, _ := newTestManager(t, ManagerConfig{})
	server := NewServer(gm, testutil.NopLogger())

	const (
		games   = 50
		senders = 8
	)
	for i := 0; i < games; i++ {
		g, err := gm.CreateGame(context.Background(), GameOptions{Rows: 4, Cols: 4, Mines: 3, Seed: int64(i + 1)})
		require.NoError(t, err)

		start := make(chan struct{})
		outcomes := make([]string, senders)
		var wg sync.WaitGroup
		for s := 0; s < senders; s++ {
			wg.Add(1)
			go func(s int) {
				defer wg.Done()
				<-start
				resp, err := server.ToggleFlag(context.Background(), request(t, map[string]interface{}{
					"game_id": g.id, "row": 0, "col": 0, "idempotency_key": "flag-corner",
				}))
				if assert.NoError(t, err) {
					outcomes[s] = resp.GetFields()[fieldOutcome].GetStringValue()
				}
			}(s)
		}
		close(start)
		wg.Wait()

		for s, outcome := range outcomes {
			assert.Equal(t, "flagged", outcome, "game %d sender %d", i, s)
		}
		snap := g.snapshot(false)
		require.Equal(t, 1, snap.FlagCount, "game %d", i)
		assert.True(t, snap.Cells[0].IsFlagged)
	}
}
