// Package leaderboard ranks evaluated projects by weighted total, the
// single ordering number the judging UI displays.
package leaderboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/hackboard/hackboard/internal/database"
	"github.com/hackboard/hackboard/internal/types"
)

// Entry is one ranked row.
type Entry struct {
	Rank            int          `json:"rank"`
	ProjectID       string       `json:"project_id"`
	TeamName        string       `json:"team_name"`
	ProjectName     string       `json:"project_name"`
	Domain          types.Domain `json:"domain"`
	WeightedTotal   float64      `json:"weighted_total"`
	OverallVerdict  string       `json:"overall_verdict"`
	PlagiarismScore int          `json:"plagiarism_score"`
}

// Response is the leaderboard query result.
type Response struct {
	Entries     []Entry   `json:"entries"`
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Service computes the leaderboard with a short refresh cache; standings
// change only when an evaluation runs, so recomputing per request is waste.
type Service struct {
	db *database.DB

	mu        sync.RWMutex
	cached    *Response
	cachedAt  time.Time
	cacheTTL  time.Duration
}

// NewService creates a leaderboard service.
func NewService(db *database.DB) *Service {
	return &Service{db: db, cacheTTL: time.Minute}
}

// Get returns current standings, up to limit entries (0 means all).
func (s *Service) Get(limit int) (*Response, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.cachedAt) < s.cacheTTL {
		resp := truncate(s.cached, limit)
		s.mu.RUnlock()
		return resp, nil
	}
	s.mu.RUnlock()

	resp, err := s.compute()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = resp
	s.cachedAt = time.Now()
	s.mu.Unlock()

	return truncate(resp, limit), nil
}

// Invalidate drops the cached standings; called after each evaluation.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *Service) compute() (*Response, error) {
	// Most recent evaluation per project, ranked by weighted total.
	rows, err := s.db.Query(`
		SELECT p.id, p.team_name, p.project_name, p.domain, e.weighted_total, e.overall_verdict, e.plagiarism_score
		FROM projects p
		JOIN evaluations e ON e.project_id = p.id
		WHERE e.created_at = (SELECT MAX(created_at) FROM evaluations WHERE project_id = p.id)
		ORDER BY e.weighted_total DESC, p.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	resp := &Response{GeneratedAt: time.Now()}
	rank := 0
	for rows.Next() {
		var entry Entry
		var domain string
		if err := rows.Scan(&entry.ProjectID, &entry.TeamName, &entry.ProjectName, &domain,
			&entry.WeightedTotal, &entry.OverallVerdict, &entry.PlagiarismScore); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		rank++
		entry.Rank = rank
		entry.Domain = types.ParseDomain(domain)
		resp.Entries = append(resp.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resp.Total = len(resp.Entries)
	return resp, nil
}

func truncate(resp *Response, limit int) *Response {
	if limit <= 0 || limit >= len(resp.Entries) {
		return resp
	}
	return &Response{
		Entries:     resp.Entries[:limit],
		Total:       resp.Total,
		GeneratedAt: resp.GeneratedAt,
	}
}
