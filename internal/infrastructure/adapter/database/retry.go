package database

import (
	"context"
	"math/rand"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
)

// RetryConfig holds configuration for retrying the initial connection
type RetryConfig struct {
	MaxAttempts   int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // Factor to add randomness to retry intervals (0.0-1.0)
}

// RetryConfigFrom builds the connection retry policy from the database config
func RetryConfigFrom(config *Config) RetryConfig {
	attempts := config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return RetryConfig{
		MaxAttempts:   attempts,
		RetryInterval: config.RetryDelay,
		MaxInterval:   10 * config.RetryDelay,
		JitterFactor:  0.2,
	}
}

// retryConnect runs connect until it succeeds, attempts run out or ctx is done.
// Only startup uses this; queries are never retried.
func retryConnect(ctx context.Context, config RetryConfig, connect func() error, tp coreport.TimeProvider, logger coreport.Logger) error {
	var err error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if err = connect(); err == nil {
			return nil
		}

		if attempt == config.MaxAttempts-1 {
			break
		}

		backoff := calculateBackoffWithJitter(attempt, config)
		logger.Warn("Database connection failed, retrying", map[string]any{
			"attempt":     attempt + 1,
			"max":         config.MaxAttempts,
			"error":       err.Error(),
			"retry_after": backoff.String(),
		})

		if err := tp.Sleep(ctx, coreport.Duration(backoff)); err != nil {
			return err
		}
	}

	logger.Error("All database connection attempts failed", map[string]any{
		"attempts": config.MaxAttempts,
		"error":    err.Error(),
	})
	return err
}

// calculateBackoffWithJitter computes the backoff duration with exponential increase and jitter
func calculateBackoffWithJitter(attempt int, config RetryConfig) time.Duration {
	backoff := config.RetryInterval * (1 << uint(attempt))

	if config.MaxInterval > 0 && backoff > config.MaxInterval {
		backoff = config.MaxInterval
	}

	if config.JitterFactor > 0 {
		jitter := time.Duration(float64(backoff) * config.JitterFactor * rand.Float64())
		backoff += jitter
	}

	return backoff
}
