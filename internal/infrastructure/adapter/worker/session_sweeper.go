package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
)

// SessionSweeper periodically deletes expired sessions
type SessionSweeper struct {
	sweeper  usecase.SessionSweeper
	logger   coreport.Logger
	interval time.Duration
	timeout  time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// NewSessionSweeper creates a sweeper that runs every interval, bounding each pass by timeout
func NewSessionSweeper(sweeper usecase.SessionSweeper, logger coreport.Logger, interval, timeout time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop is called
func (s *SessionSweeper) Start() error {
	if s.interval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("session sweeper already started")
	}

	s.sweepOnce()

	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepOnce()
			case <-s.stopChan:
				return
			}
		}
	}()

	s.logger.Info("Session sweeper started", map[string]any{"interval": s.interval.String()})
	return nil
}

// Stop halts the sweeper and waits for a running pass to finish. It is safe to call more than once.
func (s *SessionSweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.started.Load() {
			<-s.done
		}
		s.logger.Info("Session sweeper stopped", nil)
	})
}

func (s *SessionSweeper) sweepOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.sweeper.SweepExpired(ctx); err != nil {
		s.logger.Error("Failed to sweep expired sessions", map[string]any{"error": err.Error()})
	}
}
