// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is a stored run.
type Run struct {
	ID    int64
	Score int
	world.Statistics
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	Level      string
	Runs       int
	Wins       int
	BestScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			collected INTEGER NOT NULL,
			total INTEGER NOT NULL,
			health INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			won INTEGER NOT NULL,
			score INTEGER NOT NULL,
			played_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_played ON runs(played_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. A zero PlayedAt is stamped with the
// current time.
func (s *Store) SaveRun(ctx context.Context, stats world.Statistics) error {
	_, err := s.Insert(ctx, stats)
	return err
}

// Insert records a finished run and returns its ID.
func (s *Store) Insert(ctx context.Context, stats world.Statistics) (int64, error) {
	if stats.PlayedAt.IsZero() {
		stats.PlayedAt = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (level, collected, total, health, elapsed_ms, won, score, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.Level, stats.Collected, stats.Total, stats.Health,
		stats.Elapsed.Milliseconds(), stats.Won, stats.Score(), stats.PlayedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const runColumns = `id, level, collected, total, health, elapsed_ms, won, score, played_at`

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			elapsedMS int64
			playedAt  int64
		)
		if err := rows.Scan(&r.ID, &r.Level, &r.Collected, &r.Total, &r.Health,
			&elapsedMS, &r.Won, &r.Score, &playedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.PlayedAt = time.UnixMilli(playedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Recent retrieves the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY played_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// RecentRuns implements scene.RunStore.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]world.Statistics, error) {
	runs, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]world.Statistics, len(runs))
	for i, r := range runs {
		out[i] = r.Statistics
	}
	return out, nil
}

// BestRuns retrieves the top scoring runs of a level, or of every level
// when level is empty. Results are ordered by score descending.
func (s *Store) BestRuns(ctx context.Context, level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	if level == "" {
		return s.queryRuns(ctx,
			`SELECT `+runColumns+` FROM runs ORDER BY score DESC, id ASC LIMIT ?`,
			limit,
		)
	}
	return s.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs WHERE level = ? ORDER BY score DESC, id ASC LIMIT ?`,
		level, limit,
	)
}

// ClearRuns deletes the runs of a level, or every run when level is empty.
func (s *Store) ClearRuns(ctx context.Context, level string) error {
	var err error
	if level == "" {
		_, err = s.db.ExecContext(ctx, "DELETE FROM runs")
	} else {
		_, err = s.db.ExecContext(ctx, "DELETE FROM runs WHERE level = ?", level)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// AllLevelStats retrieves statistics for every level that has been played.
func (s *Store) AllLevelStats(ctx context.Context) (map[string]*LevelStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, COUNT(*), SUM(won), MAX(score), AVG(score), MAX(played_at)
		 FROM runs
		 GROUP BY level`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var (
			ls       LevelStats
			lastPlay int64
		)
		if err := rows.Scan(&ls.Level, &ls.Runs, &ls.Wins, &ls.BestScore, &ls.AvgScore, &lastPlay); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = time.UnixMilli(lastPlay)
		stats[ls.Level] = &ls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

var _ scene.RunStore = (*Store)(nil)
