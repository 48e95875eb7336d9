package mentorship

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

// recordingAdvisor records whether it was consulted.
type recordingAdvisor struct {
	advice string
	err    error
	called bool
}

func (r *recordingAdvisor) Advise(ctx context.Context, project *types.Project, eval *scoring.EvaluationResult) (string, error) {
	r.called = true
	return r.advice, r.err
}

func healthyRepo() *analysis.RepositoryAnalysis {
	return &analysis.RepositoryAnalysis{
		Fetched:          true,
		TotalCommits:     30,
		BurstCommitScore: 15,
		TotalFiles:       25,
		TotalDirs:        6,
		HasReadme:        true,
		HasTests:         true,
	}
}

func evalWith(overrides map[string]int) *scoring.EvaluationResult {
	scores := fullyScored()
	for k, v := range overrides {
		scores[k] = v
	}
	total := 0.0
	for _, criterion := range scoring.Criteria {
		total += float64(scores[criterion]) * scoring.Weights[criterion]
	}
	return &scoring.EvaluationResult{
		Scores:         scores,
		WeightedTotal:  total,
		OverallVerdict: scoring.VerdictFor(total),
	}
}

func TestGenerateQuestionsRepositoryRulesComeFirst(t *testing.T) {
	repo := healthyRepo()
	repo.BurstCommitScore = 85
	repo.IsForked = true

	questions := GenerateQuestions(completeProject(), repo, evalWith(nil))

	require.NotEmpty(t, questions)
	assert.Contains(t, questions[0], "commit history")
	assert.Contains(t, questions[1], "fork")
	assert.LessOrEqual(t, len(questions), 6)
}

func TestGenerateQuestionsSingleAuthor(t *testing.T) {
	repo := healthyRepo()
	repo.SingleAuthorPercent = 100

	questions := GenerateQuestions(completeProject(), repo, evalWith(nil))
	assert.Contains(t, questions, "Every commit comes from one author - how did the rest of the team contribute?")
}

func TestGenerateQuestionsNoRepositoryLinked(t *testing.T) {
	project := completeProject()
	project.GithubURL = ""

	questions := GenerateQuestions(project, nil, evalWith(nil))
	assert.Contains(t, questions[0], "is the source code available")
}

func TestGenerateQuestionsLowScoresTriggerThresholdRules(t *testing.T) {
	questions := GenerateQuestions(completeProject(), healthyRepo(), evalWith(map[string]int{
		scoring.CriterionInnovation: 3,
		scoring.CriterionMVP:        4,
	}))

	assert.Contains(t, questions, "What does LedgerLens do that existing solutions in this space do not?")
	assert.Contains(t, questions, "Which features are actually working today, and which are planned?")
}

func TestGenerateQuestionsCapAndFallbacks(t *testing.T) {
	// A clean project hits only the two generic fallbacks.
	questions := GenerateQuestions(completeProject(), healthyRepo(), evalWith(nil))
	require.Len(t, questions, 2)
	assert.Contains(t, questions[0], "hardest technical problem")
	assert.Contains(t, questions[1], "one more week")

	// A troubled project hits everything; the list is capped at six.
	repo := healthyRepo()
	repo.BurstCommitScore = 90
	repo.IsForked = true
	repo.SingleAuthorPercent = 100
	repo.HasTests = false
	repo.HasReadme = false

	project := completeProject()
	project.Description = "An app."

	questions = GenerateQuestions(project, repo, evalWith(map[string]int{
		scoring.CriterionInnovation:  2,
		scoring.CriterionMVP:         2,
		scoring.CriterionFeasibility: 2,
	}))
	assert.Len(t, questions, 6)
}

func TestGenerateMinimalWhenGateFails(t *testing.T) {
	advisor := &recordingAdvisor{advice: "should never appear"}
	generator := NewGenerator(advisor)

	project := &types.Project{ProjectName: "Mystery", Domain: types.DomainFinTech, Description: "Cool app."}
	result := generator.Generate(context.Background(), project, nil, nil)

	assert.True(t, result.Minimal)
	assert.False(t, advisor.called, "advisor must not run on a failed gate")
	assert.Contains(t, result.OverallAdvice, "missing too much data")
	assert.NotEmpty(t, result.Improvements)
	assert.Equal(t, []string{"Complete the submission data above, then request mentorship again."}, result.ActionPlan)
	assert.Empty(t, result.TechSuggestions)
}

func TestGenerateFullAdvice(t *testing.T) {
	advisor := &recordingAdvisor{advice: "Tighten the demo and lead with the reconciliation diff."}
	generator := NewGenerator(advisor)

	result := generator.Generate(context.Background(), completeProject(), healthyRepo(), evalWith(nil))

	assert.False(t, result.Minimal)
	assert.True(t, advisor.called)
	assert.Equal(t, "Tighten the demo and lead with the reconciliation diff.", result.OverallAdvice)
	assert.NotEmpty(t, result.ActionPlan)
	assert.NotEmpty(t, result.TechSuggestions)
}

func TestGenerateFallsBackWhenAdvisorErrors(t *testing.T) {
	advisor := &recordingAdvisor{err: errors.New("api down")}
	generator := NewGenerator(advisor)

	result := generator.Generate(context.Background(), completeProject(), healthyRepo(), evalWith(nil))

	assert.True(t, advisor.called)
	assert.Contains(t, result.OverallAdvice, "LedgerLens")
}

func TestGenerateWithoutAdvisor(t *testing.T) {
	generator := NewGenerator(nil)

	result := generator.Generate(context.Background(), completeProject(), healthyRepo(), evalWith(map[string]int{
		scoring.CriterionInnovation: 3,
		scoring.CriterionImpact:     3,
	}))

	assert.False(t, result.Minimal)
	assert.NotEmpty(t, result.OverallAdvice)
	assert.Contains(t, result.Improvements, "State concretely who the user is and what changes for them; impact scoring keys on specifics.")
}

func TestTechSuggestionsByDomain(t *testing.T) {
	assert.Contains(t, techSuggestions(types.DomainAIML)[0], "model versions")
	assert.Contains(t, techSuggestions(types.DomainFinTech)[0], "money movement")
	assert.Contains(t, techSuggestions(types.DomainOpen)[0], "live instance")
}

func TestImprovementsForUnlinkedRepository(t *testing.T) {
	project := completeProject()
	project.GithubURL = ""

	out := improvements(project, nil, evalWith(nil))
	assert.Contains(t, out, "Link a public repository so the judging pipeline can verify your build history.")
}
