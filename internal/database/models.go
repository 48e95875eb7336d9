package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

// EvaluationRecord is one persisted pipeline run for a project: scores,
// plagiarism assessment, and the repository analysis that fed them.
type EvaluationRecord struct {
	ID           string                      `json:"id"`
	ProjectID    string                      `json:"project_id"`
	Backend      string                      `json:"backend"`
	Result       scoring.EvaluationResult    `json:"result"`
	Plagiarism   plagiarism.Assessment       `json:"plagiarism"`
	RepoAnalysis analysis.RepositoryAnalysis `json:"repo_analysis"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// NewEvaluationRecord builds a record with a fresh ID.
func NewEvaluationRecord(projectID string, result scoring.EvaluationResult, plag plagiarism.Assessment, repo analysis.RepositoryAnalysis) *EvaluationRecord {
	return &EvaluationRecord{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Backend:      result.Backend,
		Result:       result,
		Plagiarism:   plag,
		RepoAnalysis: repo,
		CreatedAt:    time.Now(),
	}
}

// NewProject builds a Project from a submission request.
func NewProject(req types.SubmitRequest) *types.Project {
	return &types.Project{
		ID:           uuid.New().String(),
		TeamName:     req.TeamName,
		ProjectName:  req.ProjectName,
		Domain:       types.ParseDomain(req.Domain),
		Description:  req.Description,
		GithubURL:    req.GithubURL,
		HasSlideDeck: req.HasSlideDeck,
		TeamMembers:  req.TeamMembers,
		CreatedAt:    time.Now(),
	}
}
