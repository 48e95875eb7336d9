package mentorship

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

// MentorshipResult is the richer advice form: concrete improvements, an
// ordered action plan, tech suggestions, and a closing summary.
type MentorshipResult struct {
	Improvements    []string `json:"improvements"`
	ActionPlan      []string `json:"action_plan"`
	TechSuggestions []string `json:"tech_suggestions"`
	OverallAdvice   string   `json:"overall_advice"`
	Minimal         bool     `json:"minimal"`
}

// Advisor is an optional LLM that can write the overall advice. When it is
// nil or errors, the composed heuristic advice is used instead.
type Advisor interface {
	Advise(ctx context.Context, project *types.Project, eval *scoring.EvaluationResult) (string, error)
}

// Generator composes verification, heuristic advice, and the optional
// advisor into mentorship responses.
type Generator struct {
	advisor Advisor
}

// NewGenerator creates a generator; advisor may be nil.
func NewGenerator(advisor Advisor) *Generator {
	return &Generator{advisor: advisor}
}

// Generate produces mentorship advice for a project. When the verification
// gate fails, the result is the minimal "fix your data first" response and
// the advisor is never called.
func (g *Generator) Generate(ctx context.Context, project *types.Project, repo *analysis.RepositoryAnalysis, eval *scoring.EvaluationResult) MentorshipResult {
	verification := Verify(project)
	if !verification.Passed {
		details := make([]string, 0, len(verification.Checks))
		for _, c := range verification.Checks {
			if c.Status == StatusFail {
				details = append(details, c.Detail)
			}
		}
		return MentorshipResult{
			Improvements:    details,
			ActionPlan:      []string{"Complete the submission data above, then request mentorship again."},
			TechSuggestions: []string{},
			OverallAdvice:   "Your submission is missing too much data to advise on: " + strings.Join(details, "; ") + ".",
			Minimal:         true,
		}
	}

	result := MentorshipResult{
		Improvements:    improvements(project, repo, eval),
		ActionPlan:      actionPlan(project, repo, eval),
		TechSuggestions: techSuggestions(project.Domain),
	}
	result.OverallAdvice = g.overallAdvice(ctx, project, eval)
	return result
}

func (g *Generator) overallAdvice(ctx context.Context, project *types.Project, eval *scoring.EvaluationResult) string {
	if g.advisor != nil {
		advice, err := g.advisor.Advise(ctx, project, eval)
		if err == nil && strings.TrimSpace(advice) != "" {
			return advice
		}
		if err != nil {
			slog.Warn("mentorship advisor unavailable, using composed advice", "error", err)
		}
	}
	return composedAdvice(project, eval)
}

func composedAdvice(project *types.Project, eval *scoring.EvaluationResult) string {
	name := project.ProjectName
	if name == "" {
		name = "your project"
	}
	if eval == nil {
		return fmt.Sprintf("Focus on making %s demonstrable: a clear README, a working demo path, and an honest description of what works today.", name)
	}

	switch eval.OverallVerdict {
	case scoring.VerdictOutstanding, scoring.VerdictImpressive:
		return fmt.Sprintf("%s is in strong shape - spend remaining time on demo polish and rehearsing the pitch rather than new features.", name)
	case scoring.VerdictPromising:
		return fmt.Sprintf("%s has a solid core - tighten the weakest criteria below and make the demo path bulletproof.", name)
	default:
		return fmt.Sprintf("Narrow the scope of %s to one feature that works end to end, and make it easy for judges to see it running.", name)
	}
}

func improvements(project *types.Project, repo *analysis.RepositoryAnalysis, eval *scoring.EvaluationResult) []string {
	out := newDedupList()

	if repo != nil && repo.Fetched {
		if !repo.HasReadme {
			out.add("Add a README with setup steps and a screenshot; judges skim repositories quickly.")
		}
		if !repo.HasTests && repo.TotalFiles > 10 {
			out.add("Add even a handful of tests around the core logic to show it is verified.")
		}
		if repo.BurstCommitScore >= 70 {
			out.add("Commit incrementally as you work; a single-burst history undermines trust in the build.")
		}
		if repo.TotalDirs <= 1 && repo.TotalFiles > 10 {
			out.add("Organize the code into directories by responsibility instead of a flat file dump.")
		}
	} else {
		out.add("Link a public repository so the judging pipeline can verify your build history.")
	}

	if !project.HasSlideDeck {
		out.add("Upload a short slide deck; presentation is scored and a deck anchors the pitch.")
	}
	if eval != nil && eval.Scores[scoring.CriterionImpact] <= 5 {
		out.add("State concretely who the user is and what changes for them; impact scoring keys on specifics.")
	}

	return out.take(5)
}

func actionPlan(project *types.Project, repo *analysis.RepositoryAnalysis, eval *scoring.EvaluationResult) []string {
	plan := newDedupList()

	plan.add("1. Make the demo path reproducible: one command or one URL.")
	if repo != nil && repo.Fetched && !repo.HasReadme {
		plan.add("2. Write the README before anything else; it is the first thing judges open.")
	} else {
		plan.add("2. Rehearse a three-minute pitch: problem, demo, what is real today.")
	}
	if eval != nil && eval.Scores[scoring.CriterionMVP] <= 5 {
		plan.add("3. Cut planned features from the pitch; present only what runs.")
	} else {
		plan.add("3. Prepare answers for the follow-up questions attached to your evaluation.")
	}

	return plan.take(4)
}

func techSuggestions(domain types.Domain) []string {
	switch domain {
	case types.DomainAIML:
		return []string{"Pin model versions and log prompts so results are reproducible.", "Add a fallback path for when the model API is down or slow."}
	case types.DomainHealthTech:
		return []string{"Be explicit about what data is synthetic versus real.", "Document how you would handle patient data compliance before production."}
	case types.DomainFinTech:
		return []string{"Show how money movement is simulated; judges will ask about real rails.", "Add an audit trail for every transaction your demo performs."}
	case types.DomainDevTools:
		return []string{"Ship a one-line install; friction kills developer-tool demos.", "Include a before/after comparison showing the workflow you improve."}
	case types.DomainCybersecurity:
		return []string{"Demonstrate against a deliberately vulnerable target, never a live one.", "Explain your false-positive story; detection without precision is noise."}
	case types.DomainIoT:
		return []string{"Record a video of the hardware working as a backup for the live demo.", "Show the data path from sensor to dashboard explicitly."}
	default:
		return []string{"Deploy a live instance; a URL beats a local demo.", "Add basic observability so you can debug live during judging."}
	}
}
