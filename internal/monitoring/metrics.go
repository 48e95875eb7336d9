package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application counters. All counters are updated with atomics
// so handlers never contend on a lock for the common path.
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	CacheHits       int64
	CacheMisses     int64
	GitHubAPICalls  int64
	LLMCalls        int64
	LLMFallbacks    int64
	EvaluationsRun  int64
	AnalysesRun     int64
	RateLimitBlocks int64
	TotalResponseNs int64
	StartTime       time.Time

	statusMutex          sync.RWMutex
	requestCountByStatus map[int]int64
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		requestCountByStatus: make(map[int]int64),
	}
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(statusCode int, duration time.Duration) {
	atomic.AddInt64(&m.RequestCount, 1)
	atomic.AddInt64(&m.TotalResponseNs, int64(duration))
	if statusCode >= 400 {
		atomic.AddInt64(&m.ErrorCount, 1)
	}

	m.statusMutex.Lock()
	m.requestCountByStatus[statusCode]++
	m.statusMutex.Unlock()
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() { atomic.AddInt64(&m.CacheHits, 1) }

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() { atomic.AddInt64(&m.CacheMisses, 1) }

// RecordGitHubCall increments the GitHub API call counter.
func (m *Metrics) RecordGitHubCall() { atomic.AddInt64(&m.GitHubAPICalls, 1) }

// RecordLLMCall increments the LLM scorer call counter.
func (m *Metrics) RecordLLMCall() { atomic.AddInt64(&m.LLMCalls, 1) }

// RecordLLMFallback increments the heuristic-fallback counter.
func (m *Metrics) RecordLLMFallback() { atomic.AddInt64(&m.LLMFallbacks, 1) }

// RecordEvaluation increments the evaluation counter.
func (m *Metrics) RecordEvaluation() { atomic.AddInt64(&m.EvaluationsRun, 1) }

// RecordAnalysis increments the repository analysis counter.
func (m *Metrics) RecordAnalysis() { atomic.AddInt64(&m.AnalysesRun, 1) }

// RecordRateLimitBlock increments the rate-limit block counter.
func (m *Metrics) RecordRateLimitBlock() { atomic.AddInt64(&m.RateLimitBlocks, 1) }

// GetStats returns a snapshot of all metrics.
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	totalNs := atomic.LoadInt64(&m.TotalResponseNs)

	avgMs := float64(0)
	if requests > 0 {
		avgMs = float64(totalNs) / float64(requests) / 1e6
	}

	m.statusMutex.RLock()
	byStatus := make(map[int]int64, len(m.requestCountByStatus))
	for code, count := range m.requestCountByStatus {
		byStatus[code] = count
	}
	m.statusMutex.RUnlock()

	return map[string]interface{}{
		"request_count":        requests,
		"error_count":          atomic.LoadInt64(&m.ErrorCount),
		"requests_by_status":   byStatus,
		"cache_hits":           atomic.LoadInt64(&m.CacheHits),
		"cache_misses":         atomic.LoadInt64(&m.CacheMisses),
		"github_api_calls":     atomic.LoadInt64(&m.GitHubAPICalls),
		"llm_calls":            atomic.LoadInt64(&m.LLMCalls),
		"llm_fallbacks":        atomic.LoadInt64(&m.LLMFallbacks),
		"evaluations_run":      atomic.LoadInt64(&m.EvaluationsRun),
		"analyses_run":         atomic.LoadInt64(&m.AnalysesRun),
		"rate_limit_blocks":    atomic.LoadInt64(&m.RateLimitBlocks),
		"avg_response_time_ms": avgMs,
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
	}
}
