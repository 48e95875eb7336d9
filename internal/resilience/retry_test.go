package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hackboard/hackboard/internal/errors"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		RetryableErrors: func(err error) bool {
			return apperrors.IsRetryableError(err)
		},
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return apperrors.NewNetworkError("connection reset", nil)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	bad := apperrors.NewValidationError("bad input", nil)

	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return bad
	})

	assert.Equal(t, 1, attempts, "validation errors must not be retried")
	assert.Equal(t, bad, err)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return apperrors.NewTimeoutError("still timing out", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, fastRetryConfig(), func() error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestHealthRegistrySnapshot(t *testing.T) {
	registry := NewHealthRegistry(time.Hour)

	healthy := func(ctx context.Context) error { return nil }
	failing := func(ctx context.Context) error { return errBoom }

	registry.Register("hosting-api", healthy)
	registry.Register("redis", failing)

	registry.runChecks(context.Background())

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, LevelHealthy, snapshot["hosting-api"].Level)
	assert.Equal(t, LevelDegraded, snapshot["redis"].Level, "first failure degrades")

	registry.runChecks(context.Background())
	snapshot = registry.Snapshot()
	assert.Equal(t, LevelDown, snapshot["redis"].Level, "repeat failure marks it down")
	assert.Equal(t, errBoom.Error(), snapshot["redis"].LastError)

	// Recovery resets to healthy.
	registry.Register("redis", healthy)
	registry.runChecks(context.Background())
	assert.Equal(t, LevelHealthy, registry.Snapshot()["redis"].Level)
}
