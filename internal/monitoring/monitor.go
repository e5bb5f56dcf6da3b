package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/grpc/gameserver"
)

const (
	defaultAlertThreshold = 1000
	defaultAlertCooldown  = 5 * time.Minute
)

// SessionSource reports the live game sessions
type SessionSource interface {
	Stats() gameserver.SessionStats
}

// Monitor periodically logs session counts and goroutine usage
type Monitor struct {
	mu       sync.RWMutex
	source   SessionSource
	clock    clock.Clock
	logger   zerolog.Logger
	interval time.Duration

	baseline       int
	current        int
	peak           int
	alertThreshold int
	alertCooldown  time.Duration
	lastAlert      time.Time
	sessions       gameserver.SessionStats
	samples        int

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMonitor creates a monitor that samples source every interval
func NewMonitor(source SessionSource, interval time.Duration, clk clock.Clock, logger zerolog.Logger) *Monitor {
	if clk == nil {
		clk = clock.New()
	}
	baseline := runtime.NumGoroutine()
	return &Monitor{
		source:         source,
		clock:          clk,
		logger:         logger.With().Str("component", "Monitor").Logger(),
		interval:       interval,
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		alertThreshold: defaultAlertThreshold,
		alertCooldown:  defaultAlertCooldown,
		stopCh:         make(chan struct{}),
	}
}

// SetAlertThreshold sets the goroutine count that triggers a warning
func (m *Monitor) SetAlertThreshold(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertThreshold = n
}

// Start begins periodic sampling
func (m *Monitor) Start() {
	ticker := m.clock.Ticker(m.interval)
	m.wg.Add(1)
	go m.run(ticker)

	m.logger.Info().
		Int("baseline_goroutines", m.baseline).
		Dur("interval", m.interval).
		Msg("Started session monitoring")
}

// Stop ends sampling and waits for the loop to exit. Safe to call twice.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

func (m *Monitor) run(ticker *clock.Ticker) {
	defer m.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check()
		case <-m.stopCh:
			return
		}
	}
}

// Check takes one sample, logs it and returns the updated metrics
func (m *Monitor) Check() Metrics {
	goroutines := runtime.NumGoroutine()
	sessions := m.source.Stats()
	now := m.clock.Now()

	m.mu.Lock()
	m.current = goroutines
	if goroutines > m.peak {
		m.peak = goroutines
	}
	m.sessions = sessions
	m.samples++

	shouldAlert := goroutines > m.alertThreshold &&
		(m.lastAlert.IsZero() || now.Sub(m.lastAlert) > m.alertCooldown)
	if shouldAlert {
		m.lastAlert = now
	}
	metrics := m.metricsLocked()
	m.mu.Unlock()

	m.logger.Info().
		Int("active_games", sessions.Active).
		Int("not_started", sessions.NotStarted).
		Int("playing", sessions.Playing).
		Int("won", sessions.Won).
		Int("lost", sessions.Lost).
		Int("watchers", sessions.Watchers).
		Int64("created_total", sessions.Created).
		Int64("expired_total", sessions.Expired).
		Int("goroutines", goroutines).
		Msg("Session metrics")

	if shouldAlert {
		m.logger.Warn().
			Int("current", goroutines).
			Int("threshold", metrics.Goroutines.Threshold).
			Int("growth", metrics.Goroutines.Growth).
			Msg("High goroutine count detected - possible leak")
	}

	return metrics
}

// GetMetrics returns the latest sample
func (m *Monitor) GetMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metricsLocked()
}

func (m *Monitor) metricsLocked() Metrics {
	return Metrics{
		Goroutines: GoroutineMetrics{
			Current:   m.current,
			Baseline:  m.baseline,
			Peak:      m.peak,
			Growth:    m.current - m.baseline,
			Threshold: m.alertThreshold,
		},
		Sessions: m.sessions,
		Samples:  m.samples,
		Alerting: !m.lastAlert.IsZero() && m.current > m.alertThreshold,
	}
}

// Metrics is one monitoring sample
type Metrics struct {
	Goroutines GoroutineMetrics        `json:"goroutines"`
	Sessions   gameserver.SessionStats `json:"sessions"`
	Samples    int                     `json:"samples"`
	Alerting   bool                    `json:"alerting"`
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current   int `json:"current"`
	Baseline  int `json:"baseline"`
	Peak      int `json:"peak"`
	Growth    int `json:"growth"`
	Threshold int `json:"threshold"`
}
