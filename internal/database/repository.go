package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hackboard/hackboard/internal/types"
)

// Repository provides persistence for projects and evaluations.
type Repository struct {
	db *DB
}

// NewRepository creates a repository over the database.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateProject stores a new submission.
func (r *Repository) CreateProject(p *types.Project) error {
	members, err := json.Marshal(p.TeamMembers)
	if err != nil {
		return fmt.Errorf("failed to encode team members: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO projects (id, team_name, project_name, domain, description, github_url, has_slide_deck, team_members, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TeamName, p.ProjectName, string(p.Domain), p.Description, p.GithubURL, p.HasSlideDeck, string(members), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetProject loads a project by ID, including its latest evaluation summary.
func (r *Repository) GetProject(id string) (*types.Project, error) {
	row := r.db.QueryRow(`
		SELECT id, team_name, project_name, domain, description, github_url, has_slide_deck, team_members, created_at
		FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil || p == nil {
		return nil, err
	}

	// Latest evaluation, if any, is written back onto the project record.
	evalRow := r.db.QueryRow(`
		SELECT scores, weighted_total, plagiarism_score
		FROM evaluations WHERE project_id = ? ORDER BY created_at DESC LIMIT 1`, id)

	var scoresJSON string
	var weightedTotal float64
	var plagScore int
	switch err := evalRow.Scan(&scoresJSON, &weightedTotal, &plagScore); err {
	case nil:
		if err := json.Unmarshal([]byte(scoresJSON), &p.Scores); err != nil {
			return nil, fmt.Errorf("failed to decode scores: %w", err)
		}
		p.WeightedTotal = weightedTotal
		p.PlagiarismScore = plagScore
	case sql.ErrNoRows:
		// not evaluated yet
	default:
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}

	return p, nil
}

// ListProjects returns all submissions, newest first.
func (r *Repository) ListProjects() ([]*types.Project, error) {
	rows, err := r.db.Query(`
		SELECT id, team_name, project_name, domain, description, github_url, has_slide_deck, team_members, created_at
		FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// SaveEvaluation stores a completed pipeline run.
func (r *Repository) SaveEvaluation(rec *EvaluationRecord) error {
	scores, err := json.Marshal(rec.Result.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	explanations, err := json.Marshal(rec.Result.Explanations)
	if err != nil {
		return fmt.Errorf("failed to encode explanations: %w", err)
	}
	plagDetail, err := json.Marshal(rec.Plagiarism)
	if err != nil {
		return fmt.Errorf("failed to encode plagiarism assessment: %w", err)
	}
	repoDetail, err := json.Marshal(rec.RepoAnalysis)
	if err != nil {
		return fmt.Errorf("failed to encode repository analysis: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO evaluations (id, project_id, backend, scores, explanations, weighted_total, overall_verdict, plagiarism_score, plagiarism_detail, repo_analysis, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ProjectID, rec.Backend, string(scores), string(explanations),
		rec.Result.WeightedTotal, rec.Result.OverallVerdict,
		rec.Plagiarism.OverallScore, string(plagDetail), string(repoDetail), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}
	return nil
}

// GetLatestEvaluation loads the most recent evaluation for a project.
func (r *Repository) GetLatestEvaluation(projectID string) (*EvaluationRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, project_id, backend, scores, explanations, weighted_total, overall_verdict, plagiarism_score, plagiarism_detail, repo_analysis, created_at
		FROM evaluations WHERE project_id = ? ORDER BY created_at DESC LIMIT 1`, projectID)

	rec := &EvaluationRecord{}
	var scores, explanations, plagDetail, repoDetail string
	err := row.Scan(&rec.ID, &rec.ProjectID, &rec.Backend, &scores, &explanations,
		&rec.Result.WeightedTotal, &rec.Result.OverallVerdict,
		&rec.Plagiarism.OverallScore, &plagDetail, &repoDetail, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}

	if err := json.Unmarshal([]byte(scores), &rec.Result.Scores); err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	if err := json.Unmarshal([]byte(explanations), &rec.Result.Explanations); err != nil {
		return nil, fmt.Errorf("failed to decode explanations: %w", err)
	}
	if err := json.Unmarshal([]byte(plagDetail), &rec.Plagiarism); err != nil {
		return nil, fmt.Errorf("failed to decode plagiarism assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(repoDetail), &rec.RepoAnalysis); err != nil {
		return nil, fmt.Errorf("failed to decode repository analysis: %w", err)
	}
	rec.Result.Backend = rec.Backend

	return rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*types.Project, error) {
	p := &types.Project{}
	var domain, members string
	err := row.Scan(&p.ID, &p.TeamName, &p.ProjectName, &domain, &p.Description, &p.GithubURL, &p.HasSlideDeck, &members, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	p.Domain = types.ParseDomain(domain)
	if err := json.Unmarshal([]byte(members), &p.TeamMembers); err != nil {
		return nil, fmt.Errorf("failed to decode team members: %w", err)
	}
	return p, nil
}
