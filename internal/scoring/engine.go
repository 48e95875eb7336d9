package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/types"
)

// HeuristicEngine scores projects without reading any source code: all
// repository evidence comes from the analyzer's metadata record. Apart from
// the injected jitter the engine is deterministic.
type HeuristicEngine struct {
	jitter JitterSource
}

// NewHeuristicEngine creates the engine with the given jitter source.
func NewHeuristicEngine(jitter JitterSource) *HeuristicEngine {
	if jitter == nil {
		jitter = NewRandomJitter(time.Now().UnixNano())
	}
	return &HeuristicEngine{jitter: jitter}
}

// Name identifies the backend in evaluation records.
func (e *HeuristicEngine) Name() string { return "heuristic" }

// repoEvidence is the tagged variant for "repository data exists / does
// not": each criterion has a parallel formula for each case instead of
// re-checking the optional record everywhere.
type repoEvidence struct {
	available bool
	repo      *analysis.RepositoryAnalysis
	reason    string
}

func evidenceFor(repo *analysis.RepositoryAnalysis) repoEvidence {
	if repo == nil {
		return repoEvidence{reason: "no repository analysis supplied"}
	}
	if !repo.Fetched {
		reason := repo.Error
		if reason == "" {
			reason = "repository could not be fetched"
		}
		return repoEvidence{reason: reason}
	}
	return repoEvidence{available: true, repo: repo}
}

// Evaluate scores a project across the eight-criterion rubric.
func (e *HeuristicEngine) Evaluate(project *types.Project, repo *analysis.RepositoryAnalysis, plag plagiarism.Assessment) EvaluationResult {
	ev := evidenceFor(repo)

	// Uniform penalty applied to every criterion before clamping.
	plagPenalty := 0.0
	switch {
	case plag.OverallScore > 60:
		plagPenalty = -2
	case plag.OverallScore > 30:
		plagPenalty = -1
	}

	type criterionScore struct {
		raw         float64
		explanation string
	}

	raws := map[string]criterionScore{}

	raw, why := e.scoreInnovation(project, ev)
	raws[CriterionInnovation] = criterionScore{raw, why}
	raw, why = e.scoreFeasibility(project, ev)
	raws[CriterionFeasibility] = criterionScore{raw, why}
	raw, why = e.scoreImpact(project, ev)
	raws[CriterionImpact] = criterionScore{raw, why}
	raw, why = e.scoreMVP(project, ev)
	raws[CriterionMVP] = criterionScore{raw, why}
	raw, why = e.scorePresentation(project, ev)
	raws[CriterionPresentation] = criterionScore{raw, why}
	raw, why = e.scoreCodeQuality(project, ev)
	raws[CriterionCodeQuality] = criterionScore{raw, why}
	raw, why = e.scoreCollaboration(project, ev)
	raws[CriterionCollaboration] = criterionScore{raw, why}
	raw, why = e.scoreOriginality(project, ev)
	raws[CriterionOriginality] = criterionScore{raw, why}

	scores := make(map[string]int, len(Criteria))
	explanations := make(map[string]string, len(Criteria))
	weightedTotal := 0.0

	for _, criterion := range Criteria {
		cs := raws[criterion]
		final := clampScore(cs.raw + plagPenalty)
		scores[criterion] = final
		weightedTotal += float64(final) * Weights[criterion]

		explanation := cs.explanation
		if plagPenalty != 0 {
			explanation += fmt.Sprintf(" Plagiarism penalty of %.0f applied.", plagPenalty)
		}
		explanations[criterion] = explanation
	}

	weightedTotal = math.Round(weightedTotal*100) / 100

	return EvaluationResult{
		Scores:         scores,
		WeightedTotal:  weightedTotal,
		Explanations:   explanations,
		OverallVerdict: VerdictFor(weightedTotal),
		Backend:        e.Name(),
		EvaluatedAt:    time.Now(),
	}
}

func (e *HeuristicEngine) scoreInnovation(p *types.Project, ev repoEvidence) (float64, string) {
	if ev.available {
		repo := ev.repo
		score := 4.0 + keywordCredit(p.Domain, p.Description, 2.5) +
			(repo.OverallRepoScore-5)*0.3 +
			descriptionDepth(p.Description)*0.5 +
			e.jitter.Jitter()

		why := "Domain-specific depth in the description plus overall repository quality."
		if repo.IsForked {
			score -= 2
			why = "Repository is a fork; innovation credit reduced."
		}
		return score, why
	}

	score := 3.5 + keywordCredit(p.Domain, p.Description, 3) +
		descriptionDepth(p.Description) +
		e.jitter.Jitter()
	return score, "Scored from description only: " + ev.reason + "."
}

func (e *HeuristicEngine) scoreFeasibility(p *types.Project, ev repoEvidence) (float64, string) {
	if ev.available {
		repo := ev.repo
		score := 3.0 +
			math.Min(2, float64(len(repo.Languages))*0.5) +
			repo.ModularityScore*0.3
		if repo.HasDockerfile {
			score += 0.5
		}
		if repo.HasCIConfig {
			score += 0.5
		}
		if repo.HasPackageManifest {
			score += 0.5
		}
		return score, "Based on language count, code organization, and build tooling in the repository."
	}

	score := 3.0 + descriptionDepth(p.Description) + keywordCredit(p.Domain, p.Description, 1.5)
	if strings.TrimSpace(p.GithubURL) != "" {
		score += 0.5
	}
	return score, "Estimated from description depth; repository evidence unavailable (" + ev.reason + ")."
}

func (e *HeuristicEngine) scoreImpact(p *types.Project, ev repoEvidence) (float64, string) {
	score := 3.5 + keywordCredit(p.Domain, p.Description, 2.5) +
		descriptionDepth(p.Description)*0.75 +
		e.jitter.Jitter()

	if ev.available && ev.repo.HasReadme {
		score += 0.5
	}
	return score, "Problem relevance judged from domain vocabulary and description substance."
}

func (e *HeuristicEngine) scoreMVP(p *types.Project, ev repoEvidence) (float64, string) {
	if ev.available {
		repo := ev.repo
		score := 3.0 + e.jitter.Jitter()
		if repo.TotalFiles >= 10 {
			score++
		}
		if repo.TotalFiles >= 25 {
			score += 0.5
		}
		if repo.HasTests {
			score++
		}
		if repo.HasPackageManifest {
			score += 0.5
		}
		if repo.TotalCommits >= 10 {
			score++
		}
		if repo.TotalCommits >= 30 {
			score += 0.5
		}
		return score, "Completeness inferred from repository size, tests, and commit volume."
	}

	score := 2.5 + descriptionDepth(p.Description)*0.75 + e.jitter.Jitter()
	if p.HasSlideDeck {
		score++
	}
	lower := strings.ToLower(p.Description)
	for _, marker := range []string{"working demo", "deployed", "live at", "prototype works", "fully functional"} {
		if strings.Contains(lower, marker) {
			score++
			break
		}
	}
	return score, "Completeness estimated from the description; repository evidence unavailable (" + ev.reason + ")."
}

func (e *HeuristicEngine) scorePresentation(p *types.Project, ev repoEvidence) (float64, string) {
	score := 3.0 + descriptionDepth(p.Description) + e.jitter.Jitter()
	if p.HasSlideDeck {
		score += 2
	}
	if ev.available && ev.repo.HasReadme {
		score++
	}
	return score, "Slide deck, README, and description substance."
}

func (e *HeuristicEngine) scoreCodeQuality(p *types.Project, ev repoEvidence) (float64, string) {
	if ev.available {
		repo := ev.repo
		score := 2.5 + repo.CleanlinessScore*0.4 + repo.ModularityScore*0.3
		if repo.HasTests {
			score++
		}
		if repo.HasCIConfig {
			score += 0.5
		}
		return score, "Repository cleanliness, structure, tests, and CI."
	}

	score := 4.0 + descriptionDepth(p.Description)*0.5
	lower := strings.ToLower(p.Description)
	for _, marker := range []string{"tested", "modular", "architecture", "code review"} {
		if strings.Contains(lower, marker) {
			score += 0.5
		}
	}
	return score, "Neutral baseline; repository evidence unavailable (" + ev.reason + ")."
}

func (e *HeuristicEngine) scoreCollaboration(p *types.Project, ev repoEvidence) (float64, string) {
	teamSize := p.TeamSize()

	if ev.available {
		repo := ev.repo
		score := 3.0
		authors := len(repo.CommitAuthors)
		switch {
		case authors > 1 && authors >= teamSize:
			score += 2.5
		case authors > 1:
			score += 1.5
		}
		if repo.SingleAuthorPercent == 100 && teamSize > 1 && repo.TotalCommits > 2 {
			score--
		}
		if teamSize >= 2 {
			score += 0.5
		}
		return score, "Commit authorship compared against the claimed team."
	}

	score := 3.5
	if teamSize >= 2 {
		score++
	}
	if teamSize >= 4 {
		score += 0.5
	}
	return score, "Claimed team size only; repository evidence unavailable (" + ev.reason + ")."
}

func (e *HeuristicEngine) scoreOriginality(p *types.Project, ev repoEvidence) (float64, string) {
	if ev.available {
		repo := ev.repo
		score := 5.5 + descriptionDepth(p.Description)*0.5
		if repo.BurstCommitScore <= 30 {
			score++
		}
		if repo.IsForked {
			score -= 1.5
		}
		return score, "Commit cadence and repository provenance."
	}

	score := 5.0 + descriptionDepth(p.Description)*0.5 + uniqueVocabulary(p.Description)
	return score, "Description vocabulary only; repository evidence unavailable (" + ev.reason + ")."
}

// descriptionDepth converts description length into tiered credit. An empty
// description earns zero, never an error.
func descriptionDepth(description string) float64 {
	words := len(strings.Fields(description))
	switch {
	case words >= 150:
		return 2.0
	case words >= 80:
		return 1.5
	case words >= 40:
		return 1.0
	case words >= 15:
		return 0.5
	default:
		return 0
	}
}

// uniqueVocabulary gives up to one point for a description whose long words
// are mostly distinct.
func uniqueVocabulary(description string) float64 {
	words := strings.Fields(strings.ToLower(description))
	long := 0
	distinct := map[string]bool{}
	for _, w := range words {
		if len(w) > 3 {
			long++
			distinct[w] = true
		}
	}
	if long < 10 {
		return 0
	}
	ratio := float64(len(distinct)) / float64(long)
	if ratio > 0.85 {
		return 1
	}
	if ratio > 0.7 {
		return 0.5
	}
	return 0
}

func clampScore(raw float64) int {
	rounded := int(math.Round(raw))
	if rounded < 1 {
		return 1
	}
	if rounded > 10 {
		return 10
	}
	return rounded
}
