package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mediaconv/internal/config"
)

// Statuses recorded for finished operations.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Record describes one finished conversion, segmenting run, or thumbnail
// extraction.
type Record struct {
	ID         string
	Kind       string
	Input      string
	Outputs    []string
	Status     string
	Detail     string
	TwoPass    bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db    *sql.DB
	path  string
	limit int
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.HistoryDB
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, limit: cfg.History.Limit}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	input TEXT NOT NULL,
	outputs TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	two_pass INTEGER NOT NULL DEFAULT 0,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversions_finished_at ON conversions (finished_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Append stores a finished record and prunes the oldest rows beyond the
// configured limit. A missing ID is filled in.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}

	outputs, err := json.Marshal(rec.Outputs)
	if err != nil {
		return Record{}, fmt.Errorf("encode outputs: %w", err)
	}

	const insert = `
INSERT INTO conversions (id, kind, input, outputs, status, detail, two_pass, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, insert,
		rec.ID, rec.Kind, rec.Input, string(outputs), rec.Status, rec.Detail,
		boolToInt(rec.TwoPass),
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert history record: %w", err)
	}

	if s.limit > 0 {
		const prune = `
DELETE FROM conversions WHERE id IN (
	SELECT id FROM conversions ORDER BY finished_at DESC, id LIMIT -1 OFFSET ?
)`
		if _, err := s.db.ExecContext(ctx, prune, s.limit); err != nil {
			return Record{}, fmt.Errorf("prune history: %w", err)
		}
	}
	return rec, nil
}

// List returns the most recent records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT id, kind, input, outputs, status, detail, two_pass, started_at, finished_at
FROM conversions ORDER BY finished_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			outputs    string
			twoPass    int
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Input, &outputs, &rec.Status, &rec.Detail, &twoPass, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		if err := json.Unmarshal([]byte(outputs), &rec.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs: %w", err)
		}
		rec.TwoPass = twoPass != 0
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
