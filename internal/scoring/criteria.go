package scoring

import "time"

// Criterion keys for the eight-criterion rubric.
const (
	CriterionInnovation      = "innovation"
	CriterionFeasibility     = "technical_feasibility"
	CriterionImpact          = "impact"
	CriterionMVP             = "mvp_completeness"
	CriterionPresentation    = "presentation"
	CriterionCodeQuality     = "code_quality"
	CriterionCollaboration   = "team_collaboration"
	CriterionOriginality     = "originality"
)

// Criteria lists the rubric in weight order.
var Criteria = []string{
	CriterionInnovation,
	CriterionFeasibility,
	CriterionImpact,
	CriterionMVP,
	CriterionPresentation,
	CriterionCodeQuality,
	CriterionCollaboration,
	CriterionOriginality,
}

// Weights is the canonical rubric. The weights sum to exactly 1.0.
var Weights = map[string]float64{
	CriterionInnovation:    0.25,
	CriterionFeasibility:   0.20,
	CriterionImpact:        0.20,
	CriterionMVP:           0.10,
	CriterionPresentation:  0.10,
	CriterionCodeQuality:   0.05,
	CriterionCollaboration: 0.05,
	CriterionOriginality:   0.05,
}

// LegacyWeights is an older rubric that weighted innovation at 0.30 and
// scored "tech_stack" instead of code_quality. It disagrees with Weights
// and is retained only so the discrepancy stays visible; the engine never
// uses it.
var LegacyWeights = map[string]float64{
	CriterionInnovation:    0.30,
	CriterionFeasibility:   0.20,
	CriterionImpact:        0.20,
	CriterionMVP:           0.10,
	"tech_stack":           0.05,
	CriterionPresentation:  0.05,
	CriterionCollaboration: 0.05,
	CriterionOriginality:   0.05,
}

// Verdict buckets on fixed weighted-total thresholds.
const (
	VerdictOutstanding = "Outstanding"
	VerdictImpressive  = "Impressive"
	VerdictPromising   = "Promising"
	VerdictNeedsWork   = "Needs Work"
	VerdictIncomplete  = "Incomplete"
)

// VerdictFor buckets a weighted total into a verdict.
func VerdictFor(weightedTotal float64) string {
	switch {
	case weightedTotal >= 8:
		return VerdictOutstanding
	case weightedTotal >= 6.5:
		return VerdictImpressive
	case weightedTotal >= 5:
		return VerdictPromising
	case weightedTotal >= 3.5:
		return VerdictNeedsWork
	default:
		return VerdictIncomplete
	}
}

// EvaluationResult is the scoring engine's output: eight 1-10 criterion
// scores, a weighted total, per-criterion explanations, and a verdict.
type EvaluationResult struct {
	Scores         map[string]int    `json:"scores"`
	WeightedTotal  float64           `json:"weighted_total"`
	Explanations   map[string]string `json:"explanations"`
	OverallVerdict string            `json:"overall_verdict"`
	Backend        string            `json:"backend"`
	EvaluatedAt    time.Time         `json:"evaluated_at"`
}
