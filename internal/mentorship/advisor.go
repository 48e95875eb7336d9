package mentorship

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

// ErrAdvisorUnconfigured is returned when no API key was provided.
var ErrAdvisorUnconfigured = errors.New("mentorship advisor not configured")

// AnthropicAdvisor writes the overall advice with a Claude model. It only
// supplements the composed heuristic advice; Generator falls back when it
// errors.
type AnthropicAdvisor struct {
	client  anthropic.Client
	model   anthropic.Model
	enabled bool
}

// NewAnthropicAdvisor creates the advisor; empty apiKey disables it.
func NewAnthropicAdvisor(apiKey, model string) *AnthropicAdvisor {
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	a := &AnthropicAdvisor{model: anthropic.Model(model)}
	if apiKey != "" {
		a.client = anthropic.NewClient(option.WithAPIKey(apiKey))
		a.enabled = true
	}
	return a
}

// Advise asks the model for a short paragraph of mentorship advice.
func (a *AnthropicAdvisor) Advise(ctx context.Context, project *types.Project, eval *scoring.EvaluationResult) (string, error) {
	if !a.enabled {
		return "", ErrAdvisorUnconfigured
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a hackathon mentor. In 2-3 sentences, give the single most useful piece of advice to the team behind %q (track: %s).\n\nDescription:\n%s\n",
		project.ProjectName, project.Domain, project.Description)
	if eval != nil {
		fmt.Fprintf(&b, "\nTheir current verdict is %q with a weighted score of %.2f/10.", eval.OverallVerdict, eval.WeightedTotal)
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(b.String())),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor call failed: %w", err)
	}
	if len(message.Content) == 0 || message.Content[0].Type != "text" {
		return "", fmt.Errorf("unexpected advisor response format")
	}
	return strings.TrimSpace(message.Content[0].Text), nil
}
