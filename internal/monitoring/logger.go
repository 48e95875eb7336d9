package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with evaluation-domain helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new JSON logger.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details.
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("http request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// AnalysisLogger logs a completed repository analysis.
func (l *Logger) AnalysisLogger(repoURL string, fetched bool, overallScore float64, duration time.Duration, cacheHit bool) {
	l.Info("repository analysis completed",
		"repo_url", repoURL,
		"fetched", fetched,
		"overall_repo_score", overallScore,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// EvaluationLogger logs a completed project evaluation.
func (l *Logger) EvaluationLogger(projectID, backend string, weightedTotal float64, plagiarismScore int, duration time.Duration) {
	l.Info("project evaluation completed",
		"project_id", projectID,
		"backend", backend,
		"weighted_total", weightedTotal,
		"plagiarism_score", plagiarismScore,
		"duration_ms", duration.Milliseconds(),
	)
}
