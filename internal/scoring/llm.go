package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/monitoring"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/types"
)

// ErrLLMUnconfigured is returned when no API key was provided.
var ErrLLMUnconfigured = errors.New("llm backend not configured")

const defaultLLMModel = "claude-3-5-haiku-latest"

// LLMEngine scores projects with an Anthropic model behind the same
// contract as the heuristic engine. Any failure surfaces as an error so the
// Selector can fall back.
type LLMEngine struct {
	client  anthropic.Client
	model   anthropic.Model
	metrics *monitoring.Metrics
	enabled bool
}

// NewLLMEngine creates the LLM backend. An empty apiKey produces a disabled
// engine whose Score always errors, keeping the fallback chain uniform.
func NewLLMEngine(apiKey, model string, metrics *monitoring.Metrics) *LLMEngine {
	if model == "" {
		model = defaultLLMModel
	}
	e := &LLMEngine{
		model:   anthropic.Model(model),
		metrics: metrics,
	}
	if apiKey != "" {
		e.client = anthropic.NewClient(option.WithAPIKey(apiKey))
		e.enabled = true
	}
	return e
}

// Name identifies the backend in evaluation records.
func (e *LLMEngine) Name() string { return "llm" }

// llmScores is the JSON shape the model is asked to return.
type llmScores struct {
	Scores       map[string]int    `json:"scores"`
	Explanations map[string]string `json:"explanations"`
}

// Score asks the model for the eight criterion scores. Retries transient
// API failures with exponential backoff before giving up.
func (e *LLMEngine) Score(ctx context.Context, project *types.Project, repo *analysis.RepositoryAnalysis, plag plagiarism.Assessment) (EvaluationResult, error) {
	if !e.enabled {
		return EvaluationResult{}, ErrLLMUnconfigured
	}
	if e.metrics != nil {
		e.metrics.RecordLLMCall()
	}

	prompt := buildPrompt(project, repo, plag)

	var text string
	operation := func() error {
		message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     e.model,
			MaxTokens: 1024,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			if !isRetryableAPIError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(message.Content) == 0 || message.Content[0].Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format"))
		}
		text = message.Content[0].Text
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return EvaluationResult{}, fmt.Errorf("llm scoring failed: %w", err)
	}

	parsed, err := parseScores(text)
	if err != nil {
		return EvaluationResult{}, err
	}

	return assemble(parsed, e.Name()), nil
}

func isRetryableAPIError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return true
}

func parseScores(text string) (llmScores, error) {
	// Models sometimes wrap JSON in prose or code fences.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return llmScores{}, fmt.Errorf("no JSON object in model response")
	}

	var parsed llmScores
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return llmScores{}, fmt.Errorf("failed to parse model response: %w", err)
	}

	for _, criterion := range Criteria {
		if _, ok := parsed.Scores[criterion]; !ok {
			return llmScores{}, fmt.Errorf("model response missing criterion %q", criterion)
		}
	}
	return parsed, nil
}

func assemble(parsed llmScores, backend string) EvaluationResult {
	scores := make(map[string]int, len(Criteria))
	explanations := make(map[string]string, len(Criteria))
	weightedTotal := 0.0

	for _, criterion := range Criteria {
		score := parsed.Scores[criterion]
		if score < 1 {
			score = 1
		}
		if score > 10 {
			score = 10
		}
		scores[criterion] = score
		weightedTotal += float64(score) * Weights[criterion]

		if why, ok := parsed.Explanations[criterion]; ok {
			explanations[criterion] = why
		}
	}

	weightedTotal = math.Round(weightedTotal*100) / 100

	return EvaluationResult{
		Scores:         scores,
		WeightedTotal:  weightedTotal,
		Explanations:   explanations,
		OverallVerdict: VerdictFor(weightedTotal),
		Backend:        backend,
		EvaluatedAt:    time.Now(),
	}
}

func buildPrompt(project *types.Project, repo *analysis.RepositoryAnalysis, plag plagiarism.Assessment) string {
	var b strings.Builder

	b.WriteString("You are judging a hackathon project. Score it 1-10 on each of these criteria: ")
	b.WriteString(strings.Join(Criteria, ", "))
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Project: %s\nTrack: %s\nTeam size: %d\nHas slide deck: %v\n\nDescription:\n%s\n\n",
		project.ProjectName, project.Domain, project.TeamSize(), project.HasSlideDeck, project.Description)

	if repo != nil && repo.Fetched {
		fmt.Fprintf(&b, "Repository evidence: %d commits by %d authors, %d files, %d directories, modularity %.1f/10, cleanliness %.1f/10, commit genuineness %.1f/10, fork=%v.\n",
			repo.TotalCommits, len(repo.CommitAuthors), repo.TotalFiles, repo.TotalDirs,
			repo.ModularityScore, repo.CleanlinessScore, repo.CommitGenuine, repo.IsForked)
		if len(repo.Flags) > 0 {
			fmt.Fprintf(&b, "Concerns: %s.\n", strings.Join(repo.Flags, "; "))
		}
	} else {
		b.WriteString("No repository data was available; judge from the description alone.\n")
	}

	fmt.Fprintf(&b, "Plagiarism risk score: %d/100.\n\n", plag.OverallScore)
	b.WriteString("Respond with only a JSON object: {\"scores\": {<criterion>: <int 1-10>, ...}, \"explanations\": {<criterion>: <one sentence>, ...}}")

	return b.String()
}
