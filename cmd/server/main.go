package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/hackboard/hackboard/internal/adapters"
	"github.com/hackboard/hackboard/internal/analysis"
	"github.com/hackboard/hackboard/internal/cache"
	"github.com/hackboard/hackboard/internal/database"
	"github.com/hackboard/hackboard/internal/errors"
	"github.com/hackboard/hackboard/internal/leaderboard"
	"github.com/hackboard/hackboard/internal/mentorship"
	"github.com/hackboard/hackboard/internal/monitoring"
	"github.com/hackboard/hackboard/internal/ratelimit"
	"github.com/hackboard/hackboard/internal/resilience"
	"github.com/hackboard/hackboard/internal/scoring"
	"github.com/hackboard/hackboard/internal/security"
)

func main() {
	logger := monitoring.NewLogger()
	slog.SetDefault(logger.Logger)

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	metrics := monitoring.NewMetrics()

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	board := leaderboard.NewService(db)

	// Hosting client + analyzer.
	github := adapters.NewGitHubClient(cfg.GithubToken, adapters.WithCallHook(metrics.RecordGitHubCall))
	defer github.Close()
	analyzer := analysis.NewService(github, logger, metrics)
	analysisCache := cache.NewAnalysisCache(time.Duration(cfg.AnalysisCacheTTLMinutes) * time.Minute)
	defer analysisCache.Stop()

	// Scoring backends: the heuristic engine always works; the LLM backend
	// is preferred when configured and falls back transparently.
	heuristic := scoring.NewHeuristicEngine(scoring.NewRandomJitter(time.Now().UnixNano()))
	var preferred scoring.Backend
	if cfg.ScoringBackend == "llm" && cfg.AnthropicAPIKey != "" {
		preferred = scoring.NewLLMEngine(cfg.AnthropicAPIKey, cfg.LLMModel, metrics)
	}
	selector := scoring.NewSelector(preferred, heuristic, metrics)

	mentor := mentorship.NewGenerator(mentorship.NewAnthropicAdvisor(cfg.AnthropicAPIKey, cfg.LLMModel))

	// Optional redis for distributed rate limiting.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid redis URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}
	limiter := ratelimit.NewLimiter(redisClient, ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             cfg.RateLimitPerMinute / 3,
	}, metrics)

	// Dependency health for /health.
	health := resilience.NewHealthRegistry(30 * time.Second)
	health.Register("github-api", github.Ping)
	if redisClient != nil {
		health.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	health.Start(ctx)

	server := &Server{
		repo:          repo,
		analyzer:      analyzer,
		analysisCache: analysisCache,
		selector:      selector,
		mentor:        mentor,
		board:         board,
		metrics:       metrics,
		logger:        logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(errors.RecoveryHandler())
	r.Use(errors.ErrorHandler())
	r.Use(monitoring.Middleware(metrics, logger))
	r.Use(security.Headers())
	r.Use(security.RequestTimeout(security.DefaultConfig()))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		services := health.Snapshot()
		status := "ok"
		code := http.StatusOK
		for _, svc := range services {
			if svc.Level == resilience.LevelDown {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":          status,
			"timestamp":       time.Now().Format(time.RFC3339),
			"services":        services,
			"circuit_breaker": github.Stats(),
		})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetStats())
	})

	api := r.Group("/api")
	api.Use(ratelimit.Middleware(limiter))
	{
		api.POST("/projects", server.SubmitProject)
		api.GET("/projects", server.ListProjects)
		api.GET("/projects/:id", server.GetProject)
		api.POST("/projects/:id/evaluate", server.EvaluateProject)
		api.GET("/projects/:id/verify", server.VerifyProject)
		api.POST("/projects/:id/mentorship", server.GenerateMentorship)
		api.GET("/analyze", server.AnalyzeRepository)
		api.GET("/leaderboard", server.Leaderboard)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "scoring_backend", cfg.ScoringBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}
