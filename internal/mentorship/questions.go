// Package mentorship turns evaluation signals into follow-up questions and
// improvement advice for judges and teams. Everything here is deterministic
// template filling; rules run in a fixed priority order and results are
// deduplicated and truncated.
package mentorship

import (
	"fmt"
	"strings"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

const maxQuestions = 6

// GenerateQuestions produces follow-up questions for judges. Rule priority:
// repository evidence first, then description signals, then score
// thresholds, then domain-generic fallbacks.
func GenerateQuestions(project *types.Project, repo *analysis.RepositoryAnalysis, eval *scoring.EvaluationResult) []string {
	questions := newDedupList()
	name := project.ProjectName
	if name == "" {
		name = "your project"
	}

	// Repository-evidence rules.
	if repo != nil && repo.Fetched {
		if repo.BurstCommitScore >= 70 {
			questions.add(fmt.Sprintf("The commit history for %s is concentrated in a very short window - can you walk us through your build timeline?", name))
		}
		if repo.IsForked {
			questions.add(fmt.Sprintf("%s is a fork of another repository - what did your team change or add?", name))
		}
		if repo.SingleAuthorPercent == 100 && project.TeamSize() > 1 && repo.TotalCommits > 2 {
			questions.add("Every commit comes from one author - how did the rest of the team contribute?")
		}
		if !repo.HasTests && repo.TotalFiles > 10 {
			questions.add(fmt.Sprintf("There are no tests in the repository - how did you verify %s works end to end?", name))
		}
		if !repo.HasReadme {
			questions.add("The repository has no README - how would a judge run your project?")
		}
	} else if strings.TrimSpace(project.GithubURL) == "" {
		questions.add(fmt.Sprintf("No repository was linked for %s - is the source code available somewhere we can look?", name))
	}

	// Description-keyword rules.
	trimmed := strings.TrimSpace(project.Description)
	if len(trimmed) < 60 {
		questions.add(fmt.Sprintf("The description of %s is very brief - what does it actually do, step by step?", name))
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "ai") && !strings.Contains(lower, "model") && !strings.Contains(lower, "api") {
		questions.add("You mention AI - which model or service powers it, and what happens when it is wrong?")
	}

	// Score-threshold rules.
	if eval != nil {
		if eval.Scores[scoring.CriterionInnovation] <= 4 {
			questions.add(fmt.Sprintf("What does %s do that existing solutions in this space do not?", name))
		}
		if eval.Scores[scoring.CriterionMVP] <= 4 {
			questions.add("Which features are actually working today, and which are planned?")
		}
		if eval.Scores[scoring.CriterionFeasibility] <= 4 {
			questions.add("Can you sketch the technical architecture and where the hard parts are?")
		}
	}

	// Domain-generic fallbacks.
	questions.add(fmt.Sprintf("What was the hardest technical problem you hit building %s, and how did you solve it?", name))
	questions.add("If you had one more week, what would you build next?")

	return questions.take(maxQuestions)
}

type dedupList struct {
	items []string
	seen  map[string]bool
}

func newDedupList() *dedupList {
	return &dedupList{seen: make(map[string]bool)}
}

func (d *dedupList) add(s string) {
	if s == "" || d.seen[s] {
		return
	}
	d.seen[s] = true
	d.items = append(d.items, s)
}

func (d *dedupList) take(n int) []string {
	if len(d.items) <= n {
		return d.items
	}
	return d.items[:n]
}
