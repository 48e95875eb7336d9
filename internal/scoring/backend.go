package scoring

import (
	"context"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/monitoring"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/types"
)

// Backend is the scoring capability passed into the pipeline at
// construction time. The heuristic engine always works; remote backends
// may fail and are wrapped by Selector.
type Backend interface {
	Name() string
	Score(ctx context.Context, project *types.Project, repo *analysis.RepositoryAnalysis, plag plagiarism.Assessment) (EvaluationResult, error)
}

// Score lets the heuristic engine satisfy Backend. It cannot fail.
func (e *HeuristicEngine) Score(_ context.Context, project *types.Project, repo *analysis.RepositoryAnalysis, plag plagiarism.Assessment) (EvaluationResult, error) {
	return e.Evaluate(project, repo, plag), nil
}

// Selector runs a preferred backend and transparently falls back to the
// heuristic engine when it is unavailable or errors. The fallback is marked
// in the explanation map so judges can see which path produced the scores.
type Selector struct {
	preferred Backend
	fallback  *HeuristicEngine
	metrics   *monitoring.Metrics
}

// NewSelector creates a selector. preferred may be nil, in which case the
// heuristic engine runs directly.
func NewSelector(preferred Backend, fallback *HeuristicEngine, metrics *monitoring.Metrics) *Selector {
	return &Selector{preferred: preferred, fallback: fallback, metrics: metrics}
}

// Evaluate produces an EvaluationResult, never an error.
func (s *Selector) Evaluate(ctx context.Context, project *types.Project, repo *analysis.RepositoryAnalysis, plag plagiarism.Assessment) EvaluationResult {
	if s.preferred != nil {
		result, err := s.preferred.Score(ctx, project, repo, plag)
		if err == nil {
			return result
		}
		if s.metrics != nil {
			s.metrics.RecordLLMFallback()
		}

		fallbackResult := s.fallback.Evaluate(project, repo, plag)
		fallbackResult.Backend = s.preferred.Name() + "-fallback"
		fallbackResult.Explanations["_fallback"] = s.preferred.Name() + " backend unavailable (" + err.Error() + "); heuristic engine used instead"
		return fallbackResult
	}

	return s.fallback.Evaluate(project, repo, plag)
}
