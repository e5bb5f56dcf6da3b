package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/minesweeper/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/minesweeper/internal/testutil"
)

type fakeSource struct {
	mu    sync.Mutex
	stats gameserver.SessionStats
	calls int
}

func (f *fakeSource) Stats() gameserver.SessionStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.stats
}

func (f *fakeSource) set(stats gameserver.SessionStats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = stats
}

func TestMonitor_Check(t *testing.T) {
	source := &fakeSource{}
	source.set(gameserver.SessionStats{Active: 3, Playing: 2, Won: 1, Watchers: 4, Created: 5, Expired: 2})
	m := NewMonitor(source, time.Minute, clock.NewMock(), testutil.NopLogger())

	metrics := m.Check()
	assert.Equal(t, 3, metrics.Sessions.Active)
	assert.Equal(t, 4, metrics.Sessions.Watchers)
	assert.Equal(t, 1, metrics.Samples)
	assert.Positive(t, metrics.Goroutines.Current)
	assert.GreaterOrEqual(t, metrics.Goroutines.Peak, metrics.Goroutines.Current)
	assert.False(t, metrics.Alerting)

	assert.Equal(t, metrics, m.GetMetrics())
}

func TestMonitor_AlertsAboveThreshold(t *testing.T) {
	m := NewMonitor(&fakeSource{}, time.Minute, clock.NewMock(), testutil.NopLogger())
	m.SetAlertThreshold(0)

	metrics := m.Check()
	assert.True(t, metrics.Alerting)
	assert.Equal(t, 0, metrics.Goroutines.Threshold)
}

func TestMonitor_SamplesOnTicker(t *testing.T) {
	source := &fakeSource{}
	mock := clock.NewMock()
	m := NewMonitor(source, 30*time.Second, mock, testutil.NopLogger())
	m.Start()
	defer m.Stop()

	source.set(gameserver.SessionStats{Active: 7})
	mock.Add(30 * time.Second)

	require.Eventually(t, func() bool {
		return m.GetMetrics().Samples >= 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 7, m.GetMetrics().Sessions.Active)
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(&fakeSource{}, time.Second, clock.NewMock(), testutil.NopLogger())
	m.Start()
	m.Stop()
	m.Stop()
}

func TestMonitor_WithGameManager(t *testing.T) {
	gm := gameserver.NewGameManager(gameserver.ManagerConfig{Logger: testutil.NopLogger()})
	defer gm.Stop()

	m := NewMonitor(gm, time.Minute, clock.NewMock(), testutil.NopLogger())
	assert.Equal(t, 0, m.Check().Sessions.Active)
}
