// Package cache holds repository analyses for the judging window, so
// re-evaluating a project does not re-hit the hosting API.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/hackboard/hackboard/internal/analysis"
)

type item struct {
	value     analysis.RepositoryAnalysis
	expiresAt time.Time
}

func (i *item) expired() bool {
	return time.Now().After(i.expiresAt)
}

// AnalysisCache is a thread-safe TTL cache of RepositoryAnalysis records
// keyed by repository URL.
type AnalysisCache struct {
	mu       sync.RWMutex
	items    map[string]*item
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewAnalysisCache creates a cache with the specified TTL and starts the
// background janitor. Call Stop to end the janitor.
func NewAnalysisCache(ttl time.Duration) *AnalysisCache {
	c := &AnalysisCache{
		items: make(map[string]*item),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Stop ends the background janitor. Safe to call more than once.
func (c *AnalysisCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *AnalysisCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			for key, it := range c.items {
				if it.expired() {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func key(url string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(url))))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached analysis for a URL, if present and fresh.
func (c *AnalysisCache) Get(url string) (analysis.RepositoryAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key(url)]
	if !ok || it.expired() {
		return analysis.RepositoryAnalysis{}, false
	}
	return it.value, true
}

// Set stores an analysis. Failed fetches are cached too, with a shorter
// TTL, so a broken URL doesn't hammer the hosting API on every retry.
func (c *AnalysisCache) Set(url string, value analysis.RepositoryAnalysis) {
	ttl := c.ttl
	if !value.Fetched {
		ttl = c.ttl / 4
	}

	c.mu.Lock()
	c.items[key(url)] = &item{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Len returns the number of cached entries, including expired ones not yet
// collected.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
