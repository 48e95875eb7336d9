package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/cache"
	"github.com/hackboard/hackboard/internal/database"
	apperrors "github.com/hackboard/hackboard/internal/errors"
	"github.com/hackboard/hackboard/internal/leaderboard"
	"github.com/hackboard/hackboard/internal/mentorship"
	"github.com/hackboard/hackboard/internal/monitoring"
	"github.com/hackboard/hackboard/internal/plagiarism"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/types"
)

// Server bundles the handler dependencies.
type Server struct {
	repo          *database.Repository
	analyzer      *analysis.Service
	analysisCache *cache.AnalysisCache
	selector      *scoring.Selector
	mentor        *mentorship.Generator
	board         *leaderboard.Service
	metrics       *monitoring.Metrics
	logger        *monitoring.Logger
}

// SubmitProject handles POST /api/projects.
func (s *Server) SubmitProject(c *gin.Context) {
	var req types.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("invalid submission payload", err.Error())
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return
	}

	project := database.NewProject(req)
	if err := s.repo.CreateProject(project); err != nil {
		appErr := apperrors.NewInternalError("failed to store project", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject handles GET /api/projects/:id.
func (s *Server) GetProject(c *gin.Context) {
	project, ok := s.loadProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListProjects handles GET /api/projects.
func (s *Server) ListProjects(c *gin.Context) {
	projects, err := s.repo.ListProjects()
	if err != nil {
		appErr := apperrors.NewInternalError("failed to list projects", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// AnalyzeRepository handles GET /api/analyze?url=... for ad-hoc analysis.
// The analyzer never fails; unreachable repositories come back with
// fetched=false and conservative defaults.
func (s *Server) AnalyzeRepository(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		appErr := apperrors.NewValidationError("url query parameter is required")
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return
	}

	c.JSON(http.StatusOK, s.analyzeWithCache(c, url))
}

// EvaluateProject handles POST /api/projects/:id/evaluate: the full
// pipeline run (analyze, assess, score, persist) plus follow-up questions.
func (s *Server) EvaluateProject(c *gin.Context) {
	project, ok := s.loadProject(c)
	if !ok {
		return
	}

	start := time.Now()

	var repo *analysis.RepositoryAnalysis
	if strings.TrimSpace(project.GithubURL) != "" {
		analyzed := s.analyzeWithCache(c, project.GithubURL)
		repo = &analyzed
	}

	assessment := plagiarism.Assess(plagiarism.Input{
		RepositoryURL: project.GithubURL,
		Description:   project.Description,
		ProjectName:   project.ProjectName,
		TeamSize:      project.TeamSize(),
		Analysis:      repo,
	})

	result := s.selector.Evaluate(c.Request.Context(), project, repo, assessment)
	s.metrics.RecordEvaluation()

	stored := analysis.RepositoryAnalysis{}
	if repo != nil {
		stored = *repo
	}
	record := database.NewEvaluationRecord(project.ID, result, assessment, stored)
	if err := s.repo.SaveEvaluation(record); err != nil {
		appErr := apperrors.NewInternalError("failed to store evaluation", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return
	}
	s.board.Invalidate()

	questions := mentorship.GenerateQuestions(project, repo, &result)
	s.logger.EvaluationLogger(project.ID, result.Backend, result.WeightedTotal, assessment.OverallScore, time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"evaluation": record,
		"questions":  questions,
	})
}

// VerifyProject handles GET /api/projects/:id/verify.
func (s *Server) VerifyProject(c *gin.Context) {
	project, ok := s.loadProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mentorship.Verify(project))
}

// GenerateMentorship handles POST /api/projects/:id/mentorship.
func (s *Server) GenerateMentorship(c *gin.Context) {
	project, ok := s.loadProject(c)
	if !ok {
		return
	}

	var repo *analysis.RepositoryAnalysis
	var eval *scoring.EvaluationResult
	if record, err := s.repo.GetLatestEvaluation(project.ID); err == nil && record != nil {
		eval = &record.Result
		if record.RepoAnalysis.Fetched {
			repo = &record.RepoAnalysis
		}
	}

	c.JSON(http.StatusOK, s.mentor.Generate(c.Request.Context(), project, repo, eval))
}

// Leaderboard handles GET /api/leaderboard.
func (s *Server) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	resp, err := s.board.Get(limit)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to compute leaderboard", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) analyzeWithCache(c *gin.Context, url string) analysis.RepositoryAnalysis {
	if cached, ok := s.analysisCache.Get(url); ok {
		s.metrics.RecordCacheHit()
		return cached
	}
	s.metrics.RecordCacheMiss()

	result := s.analyzer.Analyze(c.Request.Context(), url)
	s.analysisCache.Set(url, result)
	return result
}

func (s *Server) loadProject(c *gin.Context) (*types.Project, bool) {
	project, err := s.repo.GetProject(c.Param("id"))
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load project", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return nil, false
	}
	if project == nil {
		appErr := apperrors.NewNotFoundError("project not found")
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
		return nil, false
	}
	return project, true
}
