package resilience

import (
	"context"
	"sync"
	"time"
)

// HealthLevel describes how degraded a dependency is.
type HealthLevel string

const (
	LevelHealthy  HealthLevel = "healthy"
	LevelDegraded HealthLevel = "degraded"
	LevelDown     HealthLevel = "down"
)

// ServiceHealth is the last observed health of one external dependency.
type ServiceHealth struct {
	Name      string      `json:"name"`
	Level     HealthLevel `json:"level"`
	LastCheck time.Time   `json:"last_check"`
	LastError string      `json:"last_error,omitempty"`
}

// HealthCheckFunc probes a dependency.
type HealthCheckFunc func(ctx context.Context) error

type serviceEntry struct {
	check  HealthCheckFunc
	health ServiceHealth
}

// HealthRegistry tracks the health of external services (hosting API,
// optional LLM backend, redis) for the /health endpoint.
type HealthRegistry struct {
	mu       sync.RWMutex
	services map[string]*serviceEntry
	interval time.Duration
}

// NewHealthRegistry creates a registry probing at the given interval.
func NewHealthRegistry(interval time.Duration) *HealthRegistry {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &HealthRegistry{
		services: make(map[string]*serviceEntry),
		interval: interval,
	}
}

// Register adds a service with its probe.
func (r *HealthRegistry) Register(name string, check HealthCheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[name] = &serviceEntry{
		check: check,
		health: ServiceHealth{
			Name:  name,
			Level: LevelHealthy,
		},
	}
}

// Start runs probes in the background until ctx is cancelled.
func (r *HealthRegistry) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.runChecks(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.runChecks(ctx)
			}
		}
	}()
}

func (r *HealthRegistry) runChecks(ctx context.Context) {
	r.mu.RLock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	r.mu.RUnlock()

	for _, name := range names {
		r.mu.RLock()
		entry, ok := r.services[name]
		r.mu.RUnlock()
		if !ok {
			continue
		}

		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := entry.check(checkCtx)
		cancel()

		r.mu.Lock()
		entry.health.LastCheck = time.Now()
		if err != nil {
			entry.health.LastError = err.Error()
			if entry.health.Level == LevelHealthy {
				entry.health.Level = LevelDegraded
			} else {
				entry.health.Level = LevelDown
			}
		} else {
			entry.health.Level = LevelHealthy
			entry.health.LastError = ""
		}
		r.mu.Unlock()
	}
}

// Snapshot returns the current health of every registered service.
func (r *HealthRegistry) Snapshot() map[string]ServiceHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]ServiceHealth, len(r.services))
	for name, entry := range r.services {
		out[name] = entry.health
	}
	return out
}
