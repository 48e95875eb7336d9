package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hackboard/hackboard/internal/monitoring"
)

func TestInMemoryBurstThenBlock(t *testing.T) {
	metrics := monitoring.NewMetrics()
	limiter := NewLimiter(nil, Config{RequestsPerMinute: 30, Burst: 3}, metrics)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow(ctx, "1.2.3.4"), "burst exhausted")

	stats := metrics.GetStats()
	assert.EqualValues(t, 1, stats["rate_limit_blocks"])
}

func TestLimitsArePerClient(t *testing.T) {
	limiter := NewLimiter(nil, Config{RequestsPerMinute: 30, Burst: 1}, nil)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.False(t, limiter.Allow(ctx, "1.2.3.4"))

	// A different client has its own bucket.
	assert.True(t, limiter.Allow(ctx, "5.6.7.8"))
}

func TestMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewLimiter(nil, Config{RequestsPerMinute: 30, Burst: 1}, nil)
	router := gin.New()
	router.GET("/ping", Middleware(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate limit exceeded")
}
