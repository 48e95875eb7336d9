package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlite connection with pooling configured for a small
// write-light judging service.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the judging database under dataDir.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "hackboard.db")
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapped := &DB{DB: db}
	if err := wrapped.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("database initialized", "path", dbPath)
	return wrapped, nil
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		team_name TEXT NOT NULL,
		project_name TEXT NOT NULL,
		domain TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		github_url TEXT NOT NULL DEFAULT '',
		has_slide_deck INTEGER NOT NULL DEFAULT 0,
		team_members TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		backend TEXT NOT NULL,
		scores TEXT NOT NULL,
		explanations TEXT NOT NULL,
		weighted_total REAL NOT NULL,
		overall_verdict TEXT NOT NULL,
		plagiarism_score INTEGER NOT NULL,
		plagiarism_detail TEXT NOT NULL DEFAULT '{}',
		repo_analysis TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_project ON evaluations(project_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_total ON evaluations(weighted_total DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
