package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryableFunc is a function that can be retried. It receives the retry
// loop's context and should return nil on success.
type RetryableFunc func(ctx context.Context) error

// RetryConfig controls the exponential backoff behavior of Retry.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (initial try included)
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay caps the exponentially growing delay between retries
	MaxDelay time.Duration

	// RetryIf decides whether an error is worth retrying.
	// When nil, every error is retried.
	RetryIf func(error) bool
}

// DefaultRetryConfig returns the backoff settings used for external API calls:
// 3 attempts, 1s initial delay doubling up to 30s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// Retry executes fn with exponential backoff until it succeeds, the attempt
// budget is exhausted, or the context is cancelled.
//
// The delay doubles after each failed attempt and is capped at MaxDelay.
// Returns the last error when all attempts fail, or the context error on
// cancellation.
func Retry(ctx context.Context, cfg RetryConfig, fn RetryableFunc) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if cfg.RetryIf != nil && !cfg.RetryIf(lastErr) {
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// ErrRateLimited marks an error as a rate-limit response from an upstream API.
var ErrRateLimited = errors.New("rate limited")

// IsRateLimitError reports whether err wraps ErrRateLimited.
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
