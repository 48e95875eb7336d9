package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetCategoryAndStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		category ErrorCategory
		status   int
		code     string
	}{
		{"validation", NewValidationError("team_name is required"), CategoryValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", NewNotFoundError("project not found"), CategoryNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"network", NewNetworkError("connection reset", nil), CategoryNetwork, http.StatusBadGateway, "NETWORK_ERROR"},
		{"timeout", NewTimeoutError("deadline exceeded", nil), CategoryTimeout, http.StatusGatewayTimeout, "TIMEOUT_ERROR"},
		{"rate limit", NewRateLimitError("slow down"), CategoryRateLimit, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"external api", NewExternalAPIError("github unavailable", nil), CategoryExternalAPI, http.StatusBadGateway, "NETWORK_ERROR"},
		{"internal", NewInternalError("unexpected", nil), CategoryInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Contains(t, tt.err.Error(), tt.code)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestToAppError(t *testing.T) {
	t.Run("passes AppError through", func(t *testing.T) {
		original := NewNotFoundError("gone")
		wrapped := fmt.Errorf("handler: %w", original)

		converted := ToAppError(wrapped)
		assert.Same(t, original, converted)
	})

	t.Run("wraps plain errors as internal", func(t *testing.T) {
		converted := ToAppError(errors.New("disk full"))
		assert.Equal(t, CategoryInternal, converted.Category)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	})
}

func TestIsRetryableError(t *testing.T) {
	retryable := []error{
		NewNetworkError("reset", nil),
		NewTimeoutError("slow", nil),
		NewExternalAPIError("upstream 502", nil),
		fmt.Errorf("wrapped: %w", NewNetworkError("reset", nil)),
	}
	for _, err := range retryable {
		assert.True(t, IsRetryableError(err), err.Error())
	}

	permanent := []error{
		NewValidationError("bad payload"),
		NewNotFoundError("missing"),
		NewRateLimitError("throttled"),
		NewInternalError("bug", nil),
		errors.New("anonymous"),
	}
	for _, err := range permanent {
		assert.False(t, IsRetryableError(err), err.Error())
	}
}

func TestNetworkErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewNetworkError("hosting API unreachable", cause)

	require.NotNil(t, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}
