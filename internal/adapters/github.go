package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/hackboard/hackboard/internal/errors"
	"github.com/hackboard/hackboard/internal/resilience"
)

// Sentinel errors for the hosting-API taxonomy. Callers may treat all of
// them identically (degrade to conservative defaults) or surface them.
var (
	ErrNotFound    = errors.New("repository not found")
	ErrRateLimited = errors.New("hosting API rate limit exceeded")
	ErrInvalidURL  = errors.New("invalid or missing URL")
)

// Repository is the hosting provider's repository metadata.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	MirrorURL     string `json:"mirror_url"`
	DefaultBranch string `json:"default_branch"`
	Size          int    `json:"size"`
}

// Commit is one entry from the commit list endpoint.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
}

// TreeEntry is one path in a recursive tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob" or "tree"
}

type treeResponse struct {
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// HostingClient is the repository-hosting query boundary. The analysis core
// is agnostic to which provider implements it.
type HostingClient interface {
	FetchRepository(ctx context.Context, owner, repo string) (*Repository, error)
	FetchCommits(ctx context.Context, owner, repo string, limit int) ([]Commit, error)
	FetchTree(ctx context.Context, owner, repo, branch string) ([]TreeEntry, error)
	FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error)
}

// GitHubClient implements HostingClient against the GitHub REST API.
type GitHubClient struct {
	baseURL string
	token   string
	http    *resilience.HTTPClient
	retry   resilience.RetryConfig
	onCall  func()
}

// Option configures a GitHubClient.
type Option func(*GitHubClient)

// WithBaseURL overrides the API base URL, for tests.
func WithBaseURL(base string) Option {
	return func(g *GitHubClient) { g.baseURL = strings.TrimRight(base, "/") }
}

// WithCallHook registers a hook invoked once per API request, for metrics.
func WithCallHook(fn func()) Option {
	return func(g *GitHubClient) { g.onCall = fn }
}

// WithRetryConfig overrides the backoff schedule for transient failures.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(g *GitHubClient) { g.retry = cfg }
}

// NewGitHubClient creates a GitHub client with connection pooling and a
// circuit breaker.
func NewGitHubClient(token string, opts ...Option) *GitHubClient {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 3,
	})

	g := &GitHubClient{
		baseURL: "https://api.github.com",
		token:   token,
		http:    resilience.NewHTTPClient(resilience.DefaultHTTPClientConfig(), cb),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ParseRepoURL extracts owner and repo from a GitHub URL or an owner/repo
// shorthand. Returns ErrInvalidURL when neither shape matches.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", ErrInvalidURL
	}

	path := trimmed
	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "github.com/") {
		u, parseErr := url.Parse(trimmed)
		if parseErr == nil && u.Host != "" {
			if !strings.EqualFold(u.Host, "github.com") && !strings.EqualFold(u.Host, "www.github.com") {
				return "", "", ErrInvalidURL
			}
			path = u.Path
		} else {
			path = strings.TrimPrefix(trimmed, "github.com/")
		}
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidURL
	}

	repo = strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return "", "", ErrInvalidURL
	}
	return parts[0], repo, nil
}

// FetchRepository fetches repository metadata by owner/name.
func (g *GitHubClient) FetchRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var result Repository
	endpoint := fmt.Sprintf("%s/repos/%s/%s", g.baseURL, owner, repo)
	if err := g.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchCommits fetches the most recent commits, capped at limit.
func (g *GitHubClient) FetchCommits(ctx context.Context, owner, repo string, limit int) ([]Commit, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var commits []Commit
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d", g.baseURL, owner, repo, limit)
	if err := g.getJSON(ctx, endpoint, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// FetchTree fetches the recursive file tree of a branch.
func (g *GitHubClient) FetchTree(ctx context.Context, owner, repo, branch string) ([]TreeEntry, error) {
	if branch == "" {
		branch = "main"
	}
	var result treeResponse
	endpoint := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", g.baseURL, owner, repo, url.PathEscape(branch))
	if err := g.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Tree, nil
}

// FetchLanguages fetches the language to byte-count map.
func (g *GitHubClient) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	languages := make(map[string]int64)
	endpoint := fmt.Sprintf("%s/repos/%s/%s/languages", g.baseURL, owner, repo)
	if err := g.getJSON(ctx, endpoint, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// getJSON performs one API call, retrying transport failures and 5xx
// responses on the configured backoff schedule. 404 and rate-limit
// responses map to sentinels and are never retried.
func (g *GitHubClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if g.onCall != nil {
		g.onCall()
	}

	headers := g.headers()

	return resilience.Retry(ctx, g.retry, func() error {
		resp, err := g.http.Do(ctx, http.MethodGet, endpoint, headers)
		if err != nil {
			var open *resilience.CircuitBreakerError
			if errors.As(err, &open) {
				// Retrying a rejected call cannot help until the
				// recovery timeout elapses.
				return fmt.Errorf("hosting API request failed: %w", err)
			}
			return apperrors.NewNetworkError(fmt.Sprintf("hosting API request failed: %v", err), err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			return ErrRateLimited
		case resp.StatusCode >= http.StatusInternalServerError:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return apperrors.NewExternalAPIError(fmt.Sprintf("hosting API error: status %d, body: %s", resp.StatusCode, string(body)), nil)
		case resp.StatusCode != http.StatusOK:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("hosting API error: status %d, body: %s", resp.StatusCode, string(body))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode hosting API response: %w", err)
		}
		return nil
	})
}

func (g *GitHubClient) headers() map[string]string {
	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": "hackboard/1.0",
	}
	if g.token != "" {
		headers["Authorization"] = "Bearer " + g.token
	}
	return headers
}

// Ping probes the API's rate-limit endpoint, which does not spend request
// quota. Only transport failures and 5xx responses count as unhealthy.
func (g *GitHubClient) Ping(ctx context.Context) error {
	resp, err := g.http.Do(ctx, http.MethodGet, g.baseURL+"/rate_limit", g.headers())
	if err != nil {
		return fmt.Errorf("hosting API unreachable: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("hosting API unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Stats returns circuit breaker statistics for the health endpoint.
func (g *GitHubClient) Stats() map[string]interface{} {
	return g.http.Stats()
}

// Close releases idle connections.
func (g *GitHubClient) Close() {
	g.http.Close()
}
