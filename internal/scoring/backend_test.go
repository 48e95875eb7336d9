package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/types"
)

// stubBackend is a canned Backend for selector tests.
type stubBackend struct {
	name   string
	result EvaluationResult
	err    error
	calls  int
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Score(context.Context, *types.Project, *analysis.RepositoryAnalysis, plagiarism.Assessment) (EvaluationResult, error) {
	s.calls++
	return s.result, s.err
}

func TestSelectorPrefersWorkingBackend(t *testing.T) {
	preferred := &stubBackend{
		name:   "remote",
		result: EvaluationResult{Backend: "remote", WeightedTotal: 7.5},
	}
	selector := NewSelector(preferred, NewHeuristicEngine(ZeroJitter{}), nil)

	result := selector.Evaluate(context.Background(), solidProject(), solidRepo(), plagiarism.Assessment{OverallScore: 10})

	assert.Equal(t, "remote", result.Backend)
	assert.Equal(t, 7.5, result.WeightedTotal)
	assert.Equal(t, 1, preferred.calls)
}

func TestSelectorFallsBackOnError(t *testing.T) {
	preferred := &stubBackend{name: "llm", err: errors.New("api unreachable")}
	selector := NewSelector(preferred, NewHeuristicEngine(ZeroJitter{}), nil)

	result := selector.Evaluate(context.Background(), solidProject(), solidRepo(), plagiarism.Assessment{OverallScore: 10})

	assert.Equal(t, "llm-fallback", result.Backend)
	assert.Contains(t, result.Explanations["_fallback"], "api unreachable")
	// The fallback still produces a full rubric.
	assert.Len(t, result.Scores, len(Criteria))
	assert.Greater(t, result.WeightedTotal, 0.0)
}

func TestSelectorWithoutPreferredBackend(t *testing.T) {
	selector := NewSelector(nil, NewHeuristicEngine(ZeroJitter{}), nil)

	result := selector.Evaluate(context.Background(), solidProject(), solidRepo(), plagiarism.Assessment{OverallScore: 10})

	assert.Equal(t, "heuristic", result.Backend)
	assert.NotContains(t, result.Explanations, "_fallback")
}

func TestDisabledLLMEngineErrors(t *testing.T) {
	engine := NewLLMEngine("", "", nil)

	_, err := engine.Score(context.Background(), solidProject(), nil, plagiarism.Assessment{})
	assert.ErrorIs(t, err, ErrLLMUnconfigured)
}

func TestParseScores(t *testing.T) {
	valid := `{"scores": {"innovation": 8, "technical_feasibility": 7, "impact": 7,
		"mvp_completeness": 6, "presentation": 7, "code_quality": 6,
		"team_collaboration": 8, "originality": 7},
		"explanations": {"innovation": "Novel ranking approach."}}`

	t.Run("bare JSON", func(t *testing.T) {
		parsed, err := parseScores(valid)
		require.NoError(t, err)
		assert.Equal(t, 8, parsed.Scores[CriterionInnovation])
		assert.Equal(t, "Novel ranking approach.", parsed.Explanations[CriterionInnovation])
	})

	t.Run("JSON wrapped in prose and fences", func(t *testing.T) {
		wrapped := "Here is my evaluation:\n```json\n" + valid + "\n```\nLet me know if you need more."
		parsed, err := parseScores(wrapped)
		require.NoError(t, err)
		assert.Equal(t, 7, parsed.Scores[CriterionImpact])
	})

	t.Run("no JSON at all", func(t *testing.T) {
		_, err := parseScores("I cannot evaluate this project.")
		assert.ErrorContains(t, err, "no JSON object")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := parseScores(`{"scores": {`)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("missing criterion", func(t *testing.T) {
		_, err := parseScores(`{"scores": {"innovation": 8}}`)
		assert.ErrorContains(t, err, "missing criterion")
	})
}

func TestAssembleClampsAndWeighs(t *testing.T) {
	parsed := llmScores{Scores: map[string]int{}}
	for _, criterion := range Criteria {
		parsed.Scores[criterion] = 5
	}
	parsed.Scores[CriterionInnovation] = 99
	parsed.Scores[CriterionOriginality] = -3

	result := assemble(parsed, "llm")

	assert.Equal(t, 10, result.Scores[CriterionInnovation])
	assert.Equal(t, 1, result.Scores[CriterionOriginality])
	assert.Equal(t, "llm", result.Backend)

	// 10*.25 + 5*(.20+.20+.10+.10+.05+.05) + 1*.05
	assert.InDelta(t, 6.05, result.WeightedTotal, 0.001)
	assert.Equal(t, VerdictPromising, result.OverallVerdict)
}

func TestBuildPromptMentionsEvidence(t *testing.T) {
	repo := solidRepo()
	repo.Flags = []string{"repository is a fork of another project"}

	prompt := buildPrompt(solidProject(), repo, plagiarism.Assessment{OverallScore: 42})

	assert.Contains(t, prompt, "CardRank")
	assert.Contains(t, prompt, "40 commits by 3 authors")
	assert.Contains(t, prompt, "repository is a fork of another project")
	assert.Contains(t, prompt, "Plagiarism risk score: 42/100")

	bare := buildPrompt(solidProject(), nil, plagiarism.Assessment{})
	assert.Contains(t, bare, "No repository data was available")
}
