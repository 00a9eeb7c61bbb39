package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
)

// HealthReport describes the result of a database health check
type HealthReport struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
	Pool    PoolStats     `json:"pool"`
}

// HealthChecker pings the database on demand
type HealthChecker struct {
	manager      *Manager
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	timeout      time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(manager *Manager, logger coreport.Logger, timeProvider coreport.TimeProvider, timeout time.Duration) *HealthChecker {
	return &HealthChecker{
		manager:      manager,
		logger:       logger,
		timeProvider: timeProvider,
		timeout:      timeout,
	}
}

// Check pings the database and reports latency together with the latest pool metrics
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	start := h.timeProvider.Now()
	err := h.manager.Ping(ctx, h.timeout)

	report := HealthReport{
		Healthy: err == nil,
		Latency: h.timeProvider.Since(start).Std(),
		Pool:    h.manager.PoolStats(),
	}

	if err != nil {
		report.Error = err.Error()
		h.logger.Warn("Database health check failed", map[string]any{
			"error":      err.Error(),
			"latency_ms": report.Latency.Milliseconds(),
		})
	}

	return report
}
