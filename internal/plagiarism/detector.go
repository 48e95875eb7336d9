// Package plagiarism scores how likely a submission is copied, generated in
// bulk, or otherwise unoriginal. It is a pure, total function over the
// project's text fields and the repository analysis; it performs no I/O and
// never mutates the analyzer's output.
package plagiarism

import (
	"fmt"
	"math"
	"strings"

	"github.com/hackboard/hackboard/internal/analysis"
)

// Assessment is the detector's verdict: an overall 5-100 risk score, five
// named sub-scores, and human-readable evidence.
type Assessment struct {
	OverallScore int `json:"overall_score"` // 5-100; the floor encodes residual uncertainty

	KeywordDensityScore int `json:"keyword_density_score"`
	AIPatternScore      int `json:"ai_pattern_score"`
	BoilerplateScore    int `json:"boilerplate_score"`
	CommitHistoryRisk   int `json:"commit_history_risk"`
	ModularityRisk      int `json:"modularity_risk"`

	Flags     []string `json:"flags"`
	Positives []string `json:"positives"`
}

// Input carries everything the detector reads. TeamSize backs the
// single-author floor; it is the claimed size, not a verified one.
type Input struct {
	RepositoryURL string
	Description   string
	ProjectName   string
	TeamSize      int
	Analysis      *analysis.RepositoryAnalysis
}

// Sub-score weights for the overall blend.
const (
	weightCommitRisk     = 0.40
	weightAIPattern      = 0.20
	weightModularityRisk = 0.15
	weightBoilerplate    = 0.15
	weightKeywordDensity = 0.10
)

// aiMarketingPhrases are phrases characteristic of machine-generated or
// copied marketing copy rather than a team describing its own build.
var aiMarketingPhrases = []string{
	"comprehensive",
	"robust",
	"scalable",
	"industry standard",
	"cutting-edge",
	"state-of-the-art",
	"seamless",
	"leverage",
	"revolutionize",
	"next-generation",
	"best-in-class",
	"world-class",
	"end-to-end solution",
	"game-changing",
	"innovative solution",
}

// boilerplateNames are classic tutorial/starter project identities.
var boilerplateNames = []string{
	"todo app",
	"todo list",
	"weather app",
	"calculator",
	"tic tac toe",
	"tic-tac-toe",
	"chat app",
	"portfolio website",
	"landing page",
	"crud app",
	"clone",
	"starter",
	"template",
	"boilerplate",
	"tutorial",
	"demo app",
}

// genericNameTokens are low-signal words in a project name.
var genericNameTokens = []string{
	"app", "project", "test", "demo", "sample", "example",
	"new", "final", "untitled", "hackathon", "my",
}

// Assess produces a plagiarism assessment. It never fails: missing or
// unfetchable repository data degrades to documented default risks.
func Assess(in Input) Assessment {
	a := Assessment{}
	flags := newDedup()
	positives := newDedup()

	a.AIPatternScore = aiPatternScore(in.Description, flags, positives)
	a.BoilerplateScore = boilerplateScore(in.ProjectName, in.Description, flags)
	a.KeywordDensityScore = keywordDensityScore(in.Description, flags)
	a.CommitHistoryRisk = commitHistoryRisk(in, flags, positives)
	a.ModularityRisk = modularityRisk(in.Analysis, flags)

	blend := float64(a.CommitHistoryRisk)*weightCommitRisk +
		float64(a.AIPatternScore)*weightAIPattern +
		float64(a.ModularityRisk)*weightModularityRisk +
		float64(a.BoilerplateScore)*weightBoilerplate +
		float64(a.KeywordDensityScore)*weightKeywordDensity

	// Floor of 5: there is always residual uncertainty.
	a.OverallScore = clampInt(int(math.Round(blend)), 5, 100)

	a.Flags = flags.list()
	a.Positives = positives.list()
	return a
}

func aiPatternScore(description string, flags, positives *dedup) int {
	lower := strings.ToLower(description)
	hits := 0
	for _, phrase := range aiMarketingPhrases {
		if strings.Contains(lower, phrase) {
			hits++
		}
	}

	if hits >= 4 {
		flags.add("description is saturated with AI-style marketing language")
	} else if hits >= 2 {
		flags.add("description contains several AI-style marketing phrases")
	} else if strings.TrimSpace(description) != "" && hits == 0 {
		positives.add("description reads naturally")
	}

	return clampInt(hits*20, 0, 100)
}

func boilerplateScore(projectName, description string, flags *dedup) int {
	lowerName := strings.ToLower(projectName)
	lowerDesc := strings.ToLower(description)

	nameHits := 0
	for _, candidate := range boilerplateNames {
		if strings.Contains(lowerName, candidate) || strings.Contains(lowerDesc, candidate) {
			nameHits++
		}
	}

	genericHits := 0
	for _, token := range strings.Fields(lowerName) {
		for _, generic := range genericNameTokens {
			if token == generic {
				genericHits++
				break
			}
		}
	}

	if nameHits > 0 {
		flags.add("project resembles a common tutorial or boilerplate build")
	}

	return clampInt(nameHits*25+genericHits*10, 0, 100)
}

// keywordDensityScore measures repetitive vocabulary: the fraction of words
// longer than three characters that recur more than twice.
func keywordDensityScore(description string, flags *dedup) int {
	words := strings.Fields(strings.ToLower(description))
	counts := map[string]int{}
	longWords := 0

	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 3 {
			longWords++
			counts[w]++
		}
	}
	if longWords == 0 {
		return 0
	}

	repeated := 0
	for _, c := range counts {
		if c > 2 {
			repeated += c
		}
	}

	score := clampInt(int(float64(repeated)/float64(longWords)*200), 0, 100)
	if score >= 50 {
		flags.add("description vocabulary is highly repetitive")
	}
	return score
}

// commitHistoryRisk is the most evidence-heavy signal. Fork and mirror
// status take precedence over the raw burst computation; the remaining
// adjustments are raise-only floors applied in a fixed order.
func commitHistoryRisk(in Input, flags, positives *dedup) int {
	repo := in.Analysis

	if repo == nil {
		if strings.TrimSpace(in.RepositoryURL) == "" {
			flags.add("no GitHub URL provided")
			return 55
		}
		flags.add("repository was not analyzed")
		return 50
	}

	if !repo.Fetched {
		if strings.TrimSpace(in.RepositoryURL) == "" && repo.Error == "invalid or missing URL" {
			flags.add("no GitHub URL provided")
			return 55
		}
		msg := "repository could not be fetched"
		if repo.Error != "" {
			msg = fmt.Sprintf("repository could not be fetched: %s", repo.Error)
		}
		flags.add(msg)
		return 50
	}

	risk := repo.BurstCommitScore
	if repo.IsForked {
		risk = 85
	}
	if repo.IsMirror {
		risk = 90
	}

	// Raise-only floors, applied in fixed order. Each is max(risk, floor),
	// so the numeric result is order-independent.
	if repo.SingleAuthorPercent == 100 && repo.TotalCommits > 2 && in.TeamSize > 1 {
		if risk < 55 {
			risk = 55
		}
		flags.add(fmt.Sprintf("team of %d claimed, but every commit has one author", in.TeamSize))
	}
	if repo.TotalCommits <= 5 {
		if risk < 60 {
			risk = 60
		}
	}

	// Merge the analyzer's evidence rather than recomputing it.
	for _, f := range repo.Flags {
		flags.add(f)
	}
	for _, p := range repo.Positives {
		positives.add(p)
	}

	return clampInt(risk, 0, 100)
}

// modularityRisk inverts the analyzer's modularity score, with raise-only
// floors for missing hygiene in non-trivial repositories.
func modularityRisk(repo *analysis.RepositoryAnalysis, flags *dedup) int {
	if repo == nil {
		return 50
	}

	risk := int((10 - repo.ModularityScore) * 10)

	if repo.Fetched {
		if !repo.HasTests && repo.TotalFiles > 10 && risk < 40 {
			risk = 40
		}
		if !repo.HasReadme && risk < 35 {
			risk = 35
		}
		if !repo.HasCIConfig && repo.TotalFiles > 15 && risk < 30 {
			risk = 30
		}
	}

	return clampInt(risk, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dedup accumulates strings once each, preserving discovery order.
type dedup struct {
	items []string
	seen  map[string]bool
}

func newDedup() *dedup {
	return &dedup{seen: make(map[string]bool)}
}

func (d *dedup) add(s string) {
	if s == "" || d.seen[s] {
		return
	}
	d.seen[s] = true
	d.items = append(d.items, s)
}

func (d *dedup) list() []string {
	if d.items == nil {
		return []string{}
	}
	return d.items
}
