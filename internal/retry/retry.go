package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Func defines the function signature for a retryable operation.
type Func func(ctx context.Context) error

// Execute performs an operation with a retry mechanism.
func Execute(ctx context.Context, cfg *Config, logger *zap.Logger, op Func) error {
	// If no retry configuration is provided, just execute the operation
	if cfg == nil || !cfg.Enable {
		return op(ctx)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid retry configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	interval := cfg.Interval
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := op(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == cfg.Attempts {
			break
		}

		logger.Warn("Retryable operation failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.Attempts),
			zap.Duration("next_delay", interval),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		interval = time.Duration(float64(interval) * cfg.Backoff)
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.Attempts, lastErr)
}
