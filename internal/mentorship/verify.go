package mentorship

import (
	"fmt"
	"strings"

	"github.com/hackboard/hackboard/internal/adapters"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

// Check statuses.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

const minDescriptionChars = 15

// Check is one named verification probe's outcome.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// VerificationResult gates the richer mentorship path: two or more failing
// checks force a minimal "fix your data first" response.
type VerificationResult struct {
	Passed  bool    `json:"passed"`
	Checks  []Check `json:"checks"`
	Summary string  `json:"summary"`
}

// Verify runs six independent checks over the project's data quality.
func Verify(project *types.Project) VerificationResult {
	checks := []Check{
		checkDescription(project),
		checkRepository(project),
		checkScoring(project),
		checkPlagiarism(project),
		checkTeamSize(project),
		checkDomain(project),
	}

	fails := 0
	warns := 0
	for _, c := range checks {
		switch c.Status {
		case StatusFail:
			fails++
		case StatusWarn:
			warns++
		}
	}

	return VerificationResult{
		Passed:  fails < 2,
		Checks:  checks,
		Summary: fmt.Sprintf("%d of %d checks passed (%d warnings, %d failures)", len(checks)-fails-warns, len(checks), warns, fails),
	}
}

func checkDescription(p *types.Project) Check {
	c := Check{Name: "description_length"}
	length := len(strings.TrimSpace(p.Description))
	switch {
	case length < minDescriptionChars:
		c.Status = StatusFail
		c.Detail = "description is missing or too short to evaluate"
	case length < 60:
		c.Status = StatusWarn
		c.Detail = "description is very brief; judges will want more detail"
	default:
		c.Status = StatusPass
		c.Detail = "description has enough substance to evaluate"
	}
	return c
}

func checkRepository(p *types.Project) Check {
	c := Check{Name: "repository_reachability"}
	url := strings.TrimSpace(p.GithubURL)
	if url == "" {
		c.Status = StatusWarn
		c.Detail = "no repository URL provided; repository evidence cannot be gathered"
		return c
	}
	if _, _, err := adapters.ParseRepoURL(url); err != nil {
		c.Status = StatusFail
		c.Detail = "repository URL does not look like a valid GitHub repository"
		return c
	}
	c.Status = StatusPass
	c.Detail = "repository URL is well-formed"
	return c
}

func checkScoring(p *types.Project) Check {
	c := Check{Name: "scoring_completeness"}
	if len(p.Scores) == 0 {
		c.Status = StatusFail
		c.Detail = "project has not been scored yet"
		return c
	}
	for _, criterion := range scoring.Criteria {
		if _, ok := p.Scores[criterion]; !ok {
			c.Status = StatusWarn
			c.Detail = fmt.Sprintf("scores are incomplete: missing %s", criterion)
			return c
		}
	}
	c.Status = StatusPass
	c.Detail = "all criteria have been scored"
	return c
}

func checkPlagiarism(p *types.Project) Check {
	c := Check{Name: "plagiarism_check"}
	if p.PlagiarismScore == 0 {
		c.Status = StatusWarn
		c.Detail = "no plagiarism assessment on record"
		return c
	}
	c.Status = StatusPass
	c.Detail = fmt.Sprintf("plagiarism assessment present (risk %d/100)", p.PlagiarismScore)
	return c
}

func checkTeamSize(p *types.Project) Check {
	c := Check{Name: "team_size"}
	size := p.TeamSize()
	switch {
	case size > 6:
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("team of %d exceeds the usual hackathon size", size)
	default:
		c.Status = StatusPass
		c.Detail = fmt.Sprintf("team of %d", size)
	}
	return c
}

func checkDomain(p *types.Project) Check {
	c := Check{Name: "domain_specificity"}
	if p.Domain == types.DomainOpen {
		c.Status = StatusWarn
		c.Detail = "project is in the open track; domain-specific advice will be generic"
		return c
	}
	c.Status = StatusPass
	c.Detail = fmt.Sprintf("project targets the %s track", p.Domain)
	return c
}
