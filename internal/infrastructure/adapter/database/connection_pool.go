package database

import (
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
)

// saturationRatio is the share of MaxOpenConns in use above which a sample is logged
const saturationRatio = 0.8

// PoolStats is a snapshot of the sql.DB pool
type PoolStats struct {
	Open         int           `json:"open"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	MaxOpen      int           `json:"max_open"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration"`
}

func poolStatsFrom(stats sql.DBStats) PoolStats {
	return PoolStats{
		Open:         stats.OpenConnections,
		InUse:        stats.InUse,
		Idle:         stats.Idle,
		MaxOpen:      stats.MaxOpenConnections,
		WaitCount:    stats.WaitCount,
		WaitDuration: stats.WaitDuration,
	}
}

// Saturated reports whether nearly every allowed connection is checked out.
// A single-connection pool (sqlite) is never reported.
func (s PoolStats) Saturated() bool {
	return s.MaxOpen > 1 && float64(s.InUse) > float64(s.MaxOpen)*saturationRatio
}

// PoolWatcher samples pool statistics on an interval so health checks can read them without touching the pool
type PoolWatcher struct {
	sample func() sql.DBStats
	logger coreport.Logger

	mu     sync.RWMutex
	latest PoolStats

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// NewPoolWatcher creates a watcher reading statistics from sample
func NewPoolWatcher(sample func() sql.DBStats, logger coreport.Logger) *PoolWatcher {
	return &PoolWatcher{
		sample: sample,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Start takes a first sample and keeps sampling every interval until Stop
func (w *PoolWatcher) Start(interval time.Duration) {
	w.observe()

	w.done.Add(1)
	go func() {
		defer w.done.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.observe()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop ends sampling and waits for the loop to exit. Safe to call more than once.
func (w *PoolWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.done.Wait()
}

// Latest returns the most recent snapshot
func (w *PoolWatcher) Latest() PoolStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

func (w *PoolWatcher) observe() {
	stats := poolStatsFrom(w.sample())

	w.mu.Lock()
	w.latest = stats
	w.mu.Unlock()

	if stats.Saturated() {
		w.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpen,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
	}
}
