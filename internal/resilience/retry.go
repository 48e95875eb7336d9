package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hackboard/hackboard/internal/errors"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	JitterEnabled   bool
	RetryableErrors func(error) bool
}

// DefaultRetryConfig returns sensible defaults for hosting-API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
		RetryableErrors: func(err error) bool {
			return errors.IsRetryableError(err)
		},
	}
}

// Retry executes fn on an exponential backoff schedule until it succeeds,
// the error is non-retryable, attempts are exhausted, or the context is
// cancelled.
func Retry(ctx context.Context, config RetryConfig, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = config.InitialDelay
	expo.MaxInterval = config.MaxDelay
	expo.Multiplier = config.BackoffFactor
	if !config.JitterEnabled {
		expo.RandomizationFactor = 0
	}

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if config.RetryableErrors != nil && !config.RetryableErrors(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	// WithMaxRetries counts retries after the first attempt.
	retries := uint64(0)
	if config.MaxAttempts > 1 {
		retries = uint64(config.MaxAttempts - 1)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, retries), ctx)
	return backoff.Retry(operation, policy)
}
