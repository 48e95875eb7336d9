// Package ratelimit guards the evaluation endpoints, which fan out to the
// hosting API and must not let one client burn the shared quota.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/hackboard/hackboard/internal/monitoring"
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	Burst             int
}

// DefaultConfig returns default limits for the evaluation endpoints.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 30,
		Burst:             10,
	}
}

// Limiter provides distributed rate limiting via redis with an in-memory
// fallback when redis is unconfigured or unreachable.
type Limiter struct {
	redisLimiter *redis_rate.Limiter
	config       Config
	metrics      *monitoring.Metrics

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

// NewLimiter creates a limiter. redisClient may be nil, in which case only
// the in-memory path is used.
func NewLimiter(redisClient *redis.Client, config Config, metrics *monitoring.Metrics) *Limiter {
	l := &Limiter{
		config:   config,
		metrics:  metrics,
		fallback: make(map[string]*rate.Limiter),
	}
	if redisClient != nil {
		l.redisLimiter = redis_rate.NewLimiter(redisClient)
	}
	return l
}

// Allow reports whether the client identified by key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.redisLimiter != nil {
		res, err := l.redisLimiter.Allow(ctx, "ratelimit:"+key, redis_rate.Limit{
			Rate:   l.config.RequestsPerMinute,
			Burst:  l.config.Burst,
			Period: time.Minute,
		})
		if err == nil {
			allowed := res.Allowed > 0
			if !allowed && l.metrics != nil {
				l.metrics.RecordRateLimitBlock()
			}
			return allowed
		}
		slog.Warn("redis rate limit check failed, using in-memory fallback", "error", err)
	}

	allowed := l.allowInMemory(key)
	if !allowed && l.metrics != nil {
		l.metrics.RecordRateLimitBlock()
	}
	return allowed
}

func (l *Limiter) allowInMemory(key string) bool {
	l.mu.Lock()
	limiter, ok := l.fallback[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.config.RequestsPerMinute)/60), l.config.Burst)
		l.fallback[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
