package analysis

import "time"

// DayCount is one day of commit activity.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// RepositoryAnalysis is the fixed-shape record the analyzer reduces a
// repository's hosted metadata into. It is immutable once returned;
// downstream consumers (plagiarism detector, scoring engine, mentorship
// generator) only read it.
type RepositoryAnalysis struct {
	Fetched bool   `json:"fetched"`
	Error   string `json:"error,omitempty"`

	// Identity
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
	Size          int    `json:"size"`

	// Flags
	IsForked   bool `json:"is_forked"`
	IsMirror   bool `json:"is_mirror"`
	HasReadme  bool `json:"has_readme"`
	HasLicense bool `json:"has_license"`

	// Languages
	Languages       map[string]int64 `json:"languages"`
	PrimaryLanguage string           `json:"primary_language"`

	// Commit signals
	TotalCommits         int        `json:"total_commits"`
	CommitAuthors        []string   `json:"commit_authors"`
	CommitTimeline       []DayCount `json:"commit_timeline"`
	FirstCommitDate      time.Time  `json:"first_commit_date"`
	LastCommitDate       time.Time  `json:"last_commit_date"`
	AvgTimeBetweenCommit float64    `json:"avg_time_between_commits_hours"`
	BurstCommitScore     int        `json:"burst_commit_score"`    // 0-100, higher = more suspicious
	SingleAuthorPercent  int        `json:"single_author_percent"` // 0-100

	// File-tree signals
	TotalFiles         int            `json:"total_files"`
	TotalDirs          int            `json:"total_dirs"`
	FileExtensions     map[string]int `json:"file_extensions"`
	HasPackageManifest bool           `json:"has_package_manifest"`
	HasDependencyFile  bool           `json:"has_dependency_file"`
	HasDockerfile      bool           `json:"has_dockerfile"`
	HasCIConfig        bool           `json:"has_ci_config"`
	HasTests           bool           `json:"has_tests"`
	HasEnvExample      bool           `json:"has_env_example"`
	StructureDepth     int            `json:"structure_depth"`
	TopLevelItems      int            `json:"top_level_items"`

	// Derived scores, 1-10
	ModularityScore  float64 `json:"modularity_score"`
	CleanlinessScore float64 `json:"cleanliness_score"`
	CommitGenuine    float64 `json:"commit_genuineness"`
	OverallRepoScore float64 `json:"overall_repo_score"`

	// Human-readable evidence, deduplicated, discovery order.
	Flags     []string `json:"flags"`
	Positives []string `json:"positives"`
}

// emptyAnalysis returns the conservative fallback record used whenever the
// repository could not be fetched. Derived scores sit at mid-range so
// downstream formulas degrade instead of rewarding or punishing blindly.
func emptyAnalysis(errMsg string) RepositoryAnalysis {
	return RepositoryAnalysis{
		Fetched:          false,
		Error:            errMsg,
		Languages:        map[string]int64{},
		FileExtensions:   map[string]int{},
		CommitAuthors:    []string{},
		CommitTimeline:   []DayCount{},
		Flags:            []string{},
		Positives:        []string{},
		BurstCommitScore: 50,
		ModularityScore:  5,
		CleanlinessScore: 5,
		CommitGenuine:    5,
		OverallRepoScore: 5,
	}
}

// evidence accumulates deduplicated human-readable strings in discovery order.
type evidence struct {
	items []string
	seen  map[string]bool
}

func newEvidence() *evidence {
	return &evidence{seen: make(map[string]bool)}
}

func (e *evidence) add(s string) {
	if s == "" || e.seen[s] {
		return
	}
	e.seen[s] = true
	e.items = append(e.items, s)
}

func (e *evidence) list() []string {
	if e.items == nil {
		return []string{}
	}
	return e.items
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
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
