package analysis

import (
	"path"
	"sort"
	"strings"
	"time"
)

// genericCommitPatterns are message prefixes/tokens typical of bulk dumps
// rather than incremental development.
var genericCommitPatterns = []string{
	"initial commit",
	"first commit",
	"update",
	"updates",
	"fix",
	"wip",
	"auto",
	"commit",
	"changes",
	"add files",
	"upload",
	"final",
}

// burstScore rates how much the commit history looks like a single-session
// dump. Rules are ordered and mutually exclusive; the first match wins.
func burstScore(timestamps []time.Time, messages []string) int {
	score := burstScoreBase(timestamps)

	if len(messages) > 0 {
		generic := 0
		for _, msg := range messages {
			lower := strings.ToLower(strings.TrimSpace(msg))
			for _, pattern := range genericCommitPatterns {
				if strings.HasPrefix(lower, pattern) {
					generic++
					break
				}
			}
		}
		if float64(generic)/float64(len(messages)) > 0.6 {
			score += 20
		}
	}

	return clampInt(score, 0, 100)
}

func burstScoreBase(timestamps []time.Time) int {
	n := len(timestamps)
	if n <= 2 {
		return 70 // too little history to judge
	}

	sorted := make([]time.Time, n)
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	days := make(map[string]bool)
	for _, ts := range sorted {
		days[ts.Format("2006-01-02")] = true
	}
	span := sorted[n-1].Sub(sorted[0])
	meanGap := span / time.Duration(n-1)

	switch {
	case len(days) == 1:
		return 90
	case span < 4*time.Hour:
		return 85
	case len(days) <= 2 && n > 5:
		return 65
	case meanGap < 30*time.Minute && n > 3:
		return 60
	case len(days) >= 3 && meanGap >= 2*time.Hour:
		return 15
	default:
		return 30
	}
}

// treeSignals are the booleans and counts reduced from a recursive listing.
type treeSignals struct {
	totalFiles         int
	totalDirs          int
	fileExtensions     map[string]int
	hasReadme          bool
	hasLicense         bool
	hasPackageManifest bool
	hasDependencyFile  bool
	hasDockerfile      bool
	hasCIConfig        bool
	hasTests           bool
	hasEnvExample      bool
	structureDepth     int
	topLevelItems      int
}

var packageManifests = map[string]bool{
	"package.json":   true,
	"go.mod":         true,
	"cargo.toml":     true,
	"pyproject.toml": true,
	"pom.xml":        true,
	"build.gradle":   true,
	"setup.py":       true,
	"gemfile":        true,
	"composer.json":  true,
	"pubspec.yaml":   true,
}

var dependencyFiles = map[string]bool{
	"requirements.txt":  true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"go.sum":            true,
	"cargo.lock":        true,
	"gemfile.lock":      true,
	"poetry.lock":       true,
	"composer.lock":     true,
}

func analyzeTree(entries []treeEntry) treeSignals {
	signals := treeSignals{fileExtensions: make(map[string]int)}
	topLevel := make(map[string]bool)

	for _, entry := range entries {
		depth := strings.Count(entry.path, "/") + 1
		if depth > signals.structureDepth {
			signals.structureDepth = depth
		}
		topLevel[strings.SplitN(entry.path, "/", 2)[0]] = true

		if entry.isDir {
			signals.totalDirs++
			continue
		}
		signals.totalFiles++

		base := strings.ToLower(path.Base(entry.path))
		lowerPath := strings.ToLower(entry.path)

		if ext := path.Ext(base); ext != "" {
			signals.fileExtensions[ext]++
		}

		switch {
		case strings.HasPrefix(base, "readme"):
			signals.hasReadme = true
		case strings.HasPrefix(base, "license") || strings.HasPrefix(base, "licence"):
			signals.hasLicense = true
		}

		if packageManifests[base] {
			signals.hasPackageManifest = true
		}
		if dependencyFiles[base] {
			signals.hasDependencyFile = true
		}
		if base == "dockerfile" || strings.HasPrefix(base, "docker-compose") || base == "containerfile" {
			signals.hasDockerfile = true
		}
		if strings.HasPrefix(lowerPath, ".github/workflows/") ||
			base == ".gitlab-ci.yml" || base == ".travis.yml" || base == "jenkinsfile" {
			signals.hasCIConfig = true
		}
		if strings.Contains(lowerPath, "test") || strings.Contains(lowerPath, "spec") ||
			strings.Contains(lowerPath, "__tests__") {
			signals.hasTests = true
		}
		if base == ".env.example" || base == ".env.sample" || base == ".env.template" {
			signals.hasEnvExample = true
		}
	}

	signals.topLevelItems = len(topLevel)
	return signals
}

type treeEntry struct {
	path  string
	isDir bool
}

// modularityScore estimates codebase organization from structure alone.
func modularityScore(s treeSignals) float64 {
	score := 3.0

	if s.totalDirs >= 3 {
		score++
	}
	if s.totalDirs >= 6 {
		score++
	}
	if s.structureDepth >= 3 {
		score++
	}
	if s.structureDepth >= 5 {
		score++
	}
	if s.totalFiles >= 10 {
		score++
	}
	if s.totalFiles >= 25 {
		score += 0.5
	}
	if s.totalFiles >= 50 {
		score += 0.5
	}
	if s.hasDockerfile {
		score += 0.5
	}
	if s.hasCIConfig {
		score += 0.5
	}
	if s.hasTests {
		score += 0.5
	}
	if s.hasEnvExample {
		score += 0.5
	}

	if s.totalFiles <= 3 {
		score -= 2
	}
	if s.totalDirs == 0 {
		score--
	}
	if s.totalFiles > 10 && s.totalDirs <= 1 {
		// flat dump pattern: many files, no structure
		score--
	}

	return clamp(score, 1, 10)
}

// cleanlinessScore estimates repository hygiene. A missing README drags the
// base down rather than just withholding its credit.
func cleanlinessScore(s treeSignals, languages map[string]int64, description string) float64 {
	score := 4.0

	if s.hasReadme {
		score += 1.5
	} else {
		score--
	}
	if s.hasLicense {
		score += 0.5
	}
	if len(languages) > 1 {
		score += 0.5
	}
	if s.hasEnvExample {
		score += 0.5
	}
	if s.hasTests {
		score++
	}
	if strings.TrimSpace(description) != "" {
		score += 0.5
	}
	if s.totalFiles <= 3 {
		score -= 2
	}

	return clamp(score, 1, 10)
}

// overallRepoScore blends the three derived scores, penalizing forks and
// mirrors and crediting tests and CI.
func overallRepoScore(modularity, cleanliness, genuineness float64, isFork, isMirror, hasTests, hasCI bool) float64 {
	score := modularity*0.30 + cleanliness*0.25 + genuineness*0.35

	if isFork {
		score -= 2
	}
	if isMirror {
		score -= 2
	}
	if hasTests {
		score += 0.5
	}
	if hasCI {
		score += 0.5
	}

	return clamp(score, 1, 10)
}
