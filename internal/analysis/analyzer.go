package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hackboard/hackboard/internal/adapters"
	"github.com/hackboard/hackboard/internal/monitoring"
)

const commitFetchLimit = 100

// Service reduces a repository's hosted metadata into a RepositoryAnalysis.
// It never returns an error; every failure mode is encoded in the record's
// Fetched/Error fields so the rest of the pipeline degrades gracefully.
type Service struct {
	client  adapters.HostingClient
	logger  *monitoring.Logger
	metrics *monitoring.Metrics
}

// NewService creates an analyzer backed by the given hosting client.
func NewService(client adapters.HostingClient, logger *monitoring.Logger, metrics *monitoring.Metrics) *Service {
	return &Service{client: client, logger: logger, metrics: metrics}
}

// Analyze fetches commit history, file tree, and language statistics for the
// repository at url and reduces them into a RepositoryAnalysis.
func (s *Service) Analyze(ctx context.Context, url string) RepositoryAnalysis {
	start := time.Now()
	result := s.analyze(ctx, url)
	if s.metrics != nil {
		s.metrics.RecordAnalysis()
	}
	if s.logger != nil {
		s.logger.AnalysisLogger(url, result.Fetched, result.OverallRepoScore, time.Since(start), false)
	}
	return result
}

func (s *Service) analyze(ctx context.Context, url string) RepositoryAnalysis {
	owner, repo, err := adapters.ParseRepoURL(url)
	if err != nil {
		return emptyAnalysis("invalid or missing URL")
	}

	meta, err := s.client.FetchRepository(ctx, owner, repo)
	if err != nil {
		return emptyAnalysis(fetchErrorMessage(err))
	}

	// The remaining sub-fetches run concurrently and fail independently:
	// a languages failure must not abort tree analysis, and vice versa.
	var (
		commits   []adapters.Commit
		tree      []adapters.TreeEntry
		languages map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if list, err := s.client.FetchCommits(gctx, owner, repo, commitFetchLimit); err == nil {
			commits = list
		}
		return nil
	})
	g.Go(func() error {
		if entries, err := s.client.FetchTree(gctx, owner, repo, meta.DefaultBranch); err == nil {
			tree = entries
		}
		return nil
	})
	g.Go(func() error {
		if langs, err := s.client.FetchLanguages(gctx, owner, repo); err == nil {
			languages = langs
		}
		return nil
	})
	_ = g.Wait()

	// An abandoned analysis never produces a partially-populated record.
	if ctx.Err() != nil {
		return emptyAnalysis("analysis cancelled")
	}

	return reduce(meta, commits, tree, languages)
}

func fetchErrorMessage(err error) string {
	switch {
	case errors.Is(err, adapters.ErrNotFound):
		return "repository not found"
	case errors.Is(err, adapters.ErrRateLimited):
		return "hosting API rate limit exceeded"
	default:
		return fmt.Sprintf("failed to fetch repository: %v", err)
	}
}

// reduce is a pure function over fetched JSON; all analyzer heuristics
// happen here.
func reduce(meta *adapters.Repository, commits []adapters.Commit, tree []adapters.TreeEntry, languages map[string]int64) RepositoryAnalysis {
	if languages == nil {
		languages = map[string]int64{}
	}

	result := RepositoryAnalysis{
		Fetched:       true,
		Name:          meta.Name,
		FullName:      meta.FullName,
		Description:   meta.Description,
		Private:       meta.Private,
		DefaultBranch: meta.DefaultBranch,
		Size:          meta.Size,
		IsForked:      meta.Fork,
		IsMirror:      meta.MirrorURL != "",
		Languages:     languages,
	}

	result.PrimaryLanguage = primaryLanguage(languages)

	// Commit signals
	timestamps := make([]time.Time, 0, len(commits))
	messages := make([]string, 0, len(commits))
	authorCounts := map[string]int{}
	dayCounts := map[string]int{}

	for _, c := range commits {
		ts := c.Commit.Author.Date
		if ts.IsZero() {
			continue
		}
		timestamps = append(timestamps, ts)
		messages = append(messages, c.Commit.Message)
		if name := c.Commit.Author.Name; name != "" {
			authorCounts[name]++
		}
		dayCounts[ts.Format("2006-01-02")]++
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	result.TotalCommits = len(timestamps)
	result.CommitAuthors = sortedKeys(authorCounts)
	result.CommitTimeline = timeline(dayCounts)
	if len(timestamps) > 0 {
		result.FirstCommitDate = timestamps[0]
		result.LastCommitDate = timestamps[len(timestamps)-1]
	}
	if len(timestamps) > 1 {
		span := timestamps[len(timestamps)-1].Sub(timestamps[0])
		result.AvgTimeBetweenCommit = span.Hours() / float64(len(timestamps)-1)
	}
	result.SingleAuthorPercent = singleAuthorPercent(authorCounts, len(timestamps))
	result.BurstCommitScore = burstScore(timestamps, messages)
	result.CommitGenuine = clamp(10-float64(result.BurstCommitScore)/10, 1, 10)

	// File-tree signals
	entries := make([]treeEntry, 0, len(tree))
	for _, e := range tree {
		entries = append(entries, treeEntry{path: e.Path, isDir: e.Type == "tree"})
	}
	signals := analyzeTree(entries)

	result.TotalFiles = signals.totalFiles
	result.TotalDirs = signals.totalDirs
	result.FileExtensions = signals.fileExtensions
	result.HasReadme = signals.hasReadme
	result.HasLicense = signals.hasLicense
	result.HasPackageManifest = signals.hasPackageManifest
	result.HasDependencyFile = signals.hasDependencyFile
	result.HasDockerfile = signals.hasDockerfile
	result.HasCIConfig = signals.hasCIConfig
	result.HasTests = signals.hasTests
	result.HasEnvExample = signals.hasEnvExample
	result.StructureDepth = signals.structureDepth
	result.TopLevelItems = signals.topLevelItems

	// Derived scores
	result.ModularityScore = modularityScore(signals)
	result.CleanlinessScore = cleanlinessScore(signals, languages, meta.Description)
	result.OverallRepoScore = overallRepoScore(
		result.ModularityScore, result.CleanlinessScore, result.CommitGenuine,
		result.IsForked, result.IsMirror, signals.hasTests, signals.hasCIConfig,
	)

	result.Flags, result.Positives = collectEvidence(result, signals)
	return result
}

func collectEvidence(r RepositoryAnalysis, s treeSignals) (flags, positives []string) {
	f := newEvidence()
	p := newEvidence()

	if r.IsForked {
		f.add("repository is a fork of another project")
	}
	if r.IsMirror {
		f.add("repository is a mirror of another project")
	}
	if r.TotalCommits > 0 && r.TotalCommits <= 5 {
		f.add(fmt.Sprintf("only %d commits in history", r.TotalCommits))
	}
	if r.BurstCommitScore >= 70 {
		f.add("commits concentrated in a very short time window")
	}
	if r.SingleAuthorPercent == 100 && r.TotalCommits > 2 {
		f.add("all commits come from a single author")
	}
	if !s.hasReadme {
		f.add("no README file")
	}
	if !s.hasTests && s.totalFiles > 10 {
		f.add("no test files detected")
	}
	if s.totalFiles > 10 && s.totalDirs <= 1 {
		f.add("flat file structure with no directories")
	}

	if s.hasReadme {
		p.add("has a README")
	}
	if s.hasLicense {
		p.add("has a license")
	}
	if s.hasTests {
		p.add("includes tests")
	}
	if s.hasCIConfig {
		p.add("CI is configured")
	}
	if s.hasDockerfile {
		p.add("containerized with Docker")
	}
	if len(r.Languages) > 1 {
		p.add("uses multiple languages")
	}
	if len(r.CommitAuthors) > 1 {
		p.add("multiple contributors in commit history")
	}
	if r.BurstCommitScore <= 30 && r.TotalCommits >= 10 {
		p.add("commit history shows steady development")
	}

	return f.list(), p.list()
}

func primaryLanguage(languages map[string]int64) string {
	primary := ""
	var best int64 = -1
	for lang, bytes := range languages {
		if bytes > best || (bytes == best && lang < primary) {
			primary = lang
			best = bytes
		}
	}
	return primary
}

func singleAuthorPercent(authorCounts map[string]int, total int) int {
	if total == 0 {
		return 0
	}
	max := 0
	for _, count := range authorCounts {
		if count > max {
			max = count
		}
	}
	return clampInt(int(float64(max)/float64(total)*100+0.5), 0, 100)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func timeline(dayCounts map[string]int) []DayCount {
	days := make([]string, 0, len(dayCounts))
	for day := range dayCounts {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DayCount, 0, len(days))
	for _, day := range days {
		out = append(out, DayCount{Day: day, Count: dayCounts[day]})
	}
	return out
}
