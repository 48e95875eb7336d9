package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackboard/hackboard/internal/adapters"
)

// fakeHost is a canned HostingClient. Any nil error field returns the
// corresponding payload; a non-nil one simulates that sub-fetch failing.
type fakeHost struct {
	repo      *adapters.Repository
	commits   []adapters.Commit
	tree      []adapters.TreeEntry
	languages map[string]int64

	repoErr      error
	commitsErr   error
	treeErr      error
	languagesErr error
}

func (f *fakeHost) FetchRepository(ctx context.Context, owner, repo string) (*adapters.Repository, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return f.repo, nil
}

func (f *fakeHost) FetchCommits(ctx context.Context, owner, repo string, limit int) ([]adapters.Commit, error) {
	if f.commitsErr != nil {
		return nil, f.commitsErr
	}
	if limit < len(f.commits) {
		return f.commits[:limit], nil
	}
	return f.commits, nil
}

func (f *fakeHost) FetchTree(ctx context.Context, owner, repo, branch string) ([]adapters.TreeEntry, error) {
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.tree, nil
}

func (f *fakeHost) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	if f.languagesErr != nil {
		return nil, f.languagesErr
	}
	return f.languages, nil
}

func fakeCommit(author, message, date string) adapters.Commit {
	var c adapters.Commit
	c.Commit.Author.Name = author
	c.Commit.Author.Date = ts(date)
	c.Commit.Message = message
	return c
}

func TestAnalyzeHealthyRepository(t *testing.T) {
	host := &fakeHost{
		repo: &adapters.Repository{
			Name: "hackboard", FullName: "acme/hackboard",
			Description: "automated hackathon judging", DefaultBranch: "main",
		},
		commits: []adapters.Commit{
			fakeCommit("ada", "scaffold project", "2024-03-01T10:00:00Z"),
			fakeCommit("grace", "wire scoring engine", "2024-03-02T14:00:00Z"),
			fakeCommit("ada", "add leaderboard cache", "2024-03-04T09:00:00Z"),
			fakeCommit("grace", "tune burst heuristics", "2024-03-06T17:00:00Z"),
		},
		tree: []adapters.TreeEntry{
			{Path: "README.md", Type: "blob"},
			{Path: "LICENSE", Type: "blob"},
			{Path: "go.mod", Type: "blob"},
			{Path: "internal", Type: "tree"},
			{Path: "internal/scoring", Type: "tree"},
			{Path: "internal/scoring/engine.go", Type: "blob"},
			{Path: "internal/scoring/engine_test.go", Type: "blob"},
		},
		languages: map[string]int64{"Go": 9000, "Makefile": 100},
	}

	svc := NewService(host, nil, nil)
	result := svc.Analyze(context.Background(), "https://github.com/acme/hackboard")

	require.True(t, result.Fetched)
	assert.Empty(t, result.Error)
	assert.Equal(t, "acme/hackboard", result.FullName)
	assert.Equal(t, 4, result.TotalCommits)
	assert.Equal(t, []string{"ada", "grace"}, result.CommitAuthors)
	assert.Equal(t, 50, result.SingleAuthorPercent)
	assert.Equal(t, "Go", result.PrimaryLanguage)
	assert.Equal(t, 15, result.BurstCommitScore)
	assert.InDelta(t, 8.5, result.CommitGenuine, 0.001)
	assert.True(t, result.HasReadme)
	assert.True(t, result.HasTests)
	assert.Equal(t, ts("2024-03-01T10:00:00Z"), result.FirstCommitDate)
	assert.Equal(t, ts("2024-03-06T17:00:00Z"), result.LastCommitDate)
	assert.Len(t, result.CommitTimeline, 4)
	assert.Contains(t, result.Positives, "has a README")
	assert.Contains(t, result.Positives, "multiple contributors in commit history")
	assert.NotContains(t, result.Flags, "no README file")
}

func TestAnalyzeSingleCommitDump(t *testing.T) {
	// One commit, four files, no directories, no README. The classic
	// last-minute upload.
	host := &fakeHost{
		repo: &adapters.Repository{Name: "demo", FullName: "solo/demo", DefaultBranch: "main"},
		commits: []adapters.Commit{
			fakeCommit("solo", "initial commit", "2024-03-01T03:00:00Z"),
		},
		tree: []adapters.TreeEntry{
			{Path: "app.py", Type: "blob"},
			{Path: "model.py", Type: "blob"},
			{Path: "utils.py", Type: "blob"},
			{Path: "data.csv", Type: "blob"},
		},
	}

	svc := NewService(host, nil, nil)
	result := svc.Analyze(context.Background(), "github.com/solo/demo")

	require.True(t, result.Fetched)
	assert.GreaterOrEqual(t, result.BurstCommitScore, 70)
	assert.LessOrEqual(t, result.ModularityScore, 2.0)
	assert.LessOrEqual(t, result.CleanlinessScore, 3.0)
	assert.Contains(t, result.Flags, "no README file")
	assert.Contains(t, result.Flags, "commits concentrated in a very short time window")
	assert.Contains(t, result.Flags, "only 1 commits in history")
}

func TestAnalyzeForkIsFlagged(t *testing.T) {
	commits := make([]adapters.Commit, 0, 50)
	cursor := ts("2024-03-01T09:00:00Z")
	for i := 0; i < 50; i++ {
		commits = append(commits, fakeCommit("upstream-dev", "refactor internals", cursor.Format(time.RFC3339)))
		cursor = cursor.Add(293 * time.Minute) // ~10 days total, gaps well over 2h
	}

	host := &fakeHost{
		repo: &adapters.Repository{
			Name: "borrowed", FullName: "team/borrowed",
			Fork: true, DefaultBranch: "main",
		},
		commits: commits,
		tree: []adapters.TreeEntry{
			{Path: "README.md", Type: "blob"},
			{Path: "src", Type: "tree"},
			{Path: "src/main.go", Type: "blob"},
		},
	}

	svc := NewService(host, nil, nil)
	result := svc.Analyze(context.Background(), "https://github.com/team/borrowed")

	require.True(t, result.Fetched)
	assert.True(t, result.IsForked)
	assert.LessOrEqual(t, result.BurstCommitScore, 30)
	assert.Contains(t, result.Flags, "repository is a fork of another project")
}

func TestAnalyzeGracefulDegradation(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		host          *fakeHost
		expectedError string
	}{
		{
			name:          "invalid URL short-circuits before any fetch",
			url:           "not a url",
			host:          &fakeHost{},
			expectedError: "invalid or missing URL",
		},
		{
			name:          "empty URL",
			url:           "",
			host:          &fakeHost{},
			expectedError: "invalid or missing URL",
		},
		{
			name:          "repository not found",
			url:           "https://github.com/gone/gone",
			host:          &fakeHost{repoErr: adapters.ErrNotFound},
			expectedError: "repository not found",
		},
		{
			name:          "rate limited",
			url:           "https://github.com/busy/busy",
			host:          &fakeHost{repoErr: adapters.ErrRateLimited},
			expectedError: "hosting API rate limit exceeded",
		},
		{
			name:          "transport failure",
			url:           "https://github.com/down/down",
			host:          &fakeHost{repoErr: errors.New("connection reset")},
			expectedError: "failed to fetch repository: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.host, nil, nil)
			result := svc.Analyze(context.Background(), tt.url)

			assert.False(t, result.Fetched)
			assert.Equal(t, tt.expectedError, result.Error)
			// Conservative mid-range defaults, never zeros.
			assert.Equal(t, 50, result.BurstCommitScore)
			assert.Equal(t, 5.0, result.ModularityScore)
			assert.Equal(t, 5.0, result.CleanlinessScore)
			assert.Equal(t, 5.0, result.OverallRepoScore)
			assert.NotNil(t, result.Flags)
			assert.NotNil(t, result.Positives)
		})
	}
}

func TestAnalyzeSubFetchFailuresDoNotAbort(t *testing.T) {
	host := &fakeHost{
		repo: &adapters.Repository{Name: "partial", FullName: "acme/partial", DefaultBranch: "main"},
		commits: []adapters.Commit{
			fakeCommit("ada", "first pass", "2024-03-01T10:00:00Z"),
		},
		treeErr:      errors.New("tree unavailable"),
		languagesErr: errors.New("languages unavailable"),
	}

	svc := NewService(host, nil, nil)
	result := svc.Analyze(context.Background(), "https://github.com/acme/partial")

	require.True(t, result.Fetched, "metadata succeeded, so the record is fetched")
	assert.Equal(t, 1, result.TotalCommits)
	assert.Equal(t, 0, result.TotalFiles)
	assert.Empty(t, result.PrimaryLanguage)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := &fakeHost{
		repo: &adapters.Repository{Name: "x", FullName: "a/x", DefaultBranch: "main"},
	}
	svc := NewService(host, nil, nil)
	result := svc.Analyze(ctx, "https://github.com/a/x")

	assert.False(t, result.Fetched)
	assert.Equal(t, "analysis cancelled", result.Error)
}
