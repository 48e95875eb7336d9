package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/database"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

func setup(t *testing.T) (*database.Repository, *Service) {
	t.Helper()
	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewRepository(db), NewService(db)
}

func submitEvaluated(t *testing.T, repo *database.Repository, team string, total float64, plagScore int) *types.Project {
	t.Helper()
	project := database.NewProject(types.SubmitRequest{
		TeamName:    team,
		ProjectName: team + " project",
		Domain:      "FinTech",
	})
	require.NoError(t, repo.CreateProject(project))

	result := scoring.EvaluationResult{
		Scores:         map[string]int{scoring.CriterionInnovation: 7},
		WeightedTotal:  total,
		Explanations:   map[string]string{},
		OverallVerdict: scoring.VerdictFor(total),
		Backend:        "heuristic",
	}
	rec := database.NewEvaluationRecord(project.ID, result, plagiarism.Assessment{OverallScore: plagScore}, analysis.RepositoryAnalysis{})
	require.NoError(t, repo.SaveEvaluation(rec))
	return project
}

func TestLeaderboardOrdering(t *testing.T) {
	repo, board := setup(t)

	submitEvaluated(t, repo, "Middling", 6.2, 20)
	submitEvaluated(t, repo, "Winners", 8.4, 10)
	submitEvaluated(t, repo, "Stragglers", 3.1, 70)

	resp, err := board.Get(0)
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)

	assert.Equal(t, "Winners", resp.Entries[0].TeamName)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, scoring.VerdictOutstanding, resp.Entries[0].OverallVerdict)
	assert.Equal(t, "Middling", resp.Entries[1].TeamName)
	assert.Equal(t, 2, resp.Entries[1].Rank)
	assert.Equal(t, "Stragglers", resp.Entries[2].TeamName)
	assert.Equal(t, 3, resp.Entries[2].Rank)
	assert.Equal(t, 70, resp.Entries[2].PlagiarismScore)
}

func TestLeaderboardUsesLatestEvaluation(t *testing.T) {
	repo, board := setup(t)

	project := submitEvaluated(t, repo, "Improvers", 4.0, 30)

	// A later re-evaluation replaces the project's standing.
	rec := database.NewEvaluationRecord(project.ID, scoring.EvaluationResult{
		Scores:         map[string]int{},
		WeightedTotal:  7.9,
		Explanations:   map[string]string{},
		OverallVerdict: scoring.VerdictImpressive,
		Backend:        "heuristic",
	}, plagiarism.Assessment{OverallScore: 15}, analysis.RepositoryAnalysis{})
	rec.CreatedAt = time.Now().Add(time.Minute)
	require.NoError(t, repo.SaveEvaluation(rec))

	resp, err := board.Get(0)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, 7.9, resp.Entries[0].WeightedTotal)
}

func TestLeaderboardExcludesUnevaluatedProjects(t *testing.T) {
	repo, board := setup(t)

	submitEvaluated(t, repo, "Scored", 5.5, 25)
	unscored := database.NewProject(types.SubmitRequest{TeamName: "Pending", ProjectName: "Pending project", Domain: "Gaming"})
	require.NoError(t, repo.CreateProject(unscored))

	resp, err := board.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Scored", resp.Entries[0].TeamName)
}

func TestLeaderboardLimitAndCache(t *testing.T) {
	repo, board := setup(t)

	submitEvaluated(t, repo, "First", 8.0, 10)
	submitEvaluated(t, repo, "Second", 7.0, 10)
	submitEvaluated(t, repo, "Third", 6.0, 10)

	resp, err := board.Get(2)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, 3, resp.Total, "total reflects the full board, not the page")

	// Cached standings don't see the new evaluation until invalidated.
	submitEvaluated(t, repo, "Fourth", 9.0, 10)

	cached, err := board.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 3, cached.Total)

	board.Invalidate()
	fresh, err := board.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.Total)
	assert.Equal(t, "Fourth", fresh.Entries[0].TeamName)
}
