// Package store persists sessions and distraction events in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
	"github.com/Techy2419/Focus-Flow/pkg/session"
)

//go:embed migrations_sqlite.sql
var migrations string

const dirPermissions = 0755

// SQLiteStore implements session.Store on a local database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database file (and its directory) if needed and
// applies the schema.
func Open(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store: database path not set")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("store: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	if _, err := db.Exec(migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: run migrations: %w", err)
	}

	logger.Debug("sqlite store opened", "path", path)
	return &SQLiteStore{db: db, logger: logger.With("component", "store")}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession records a newly started session.
func (s *SQLiteStore) CreateSession(ctx context.Context, snap *session.Snapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, goal, status, started_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.Goal, string(snap.Status), snap.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("store: insert session %s: %w", snap.ID, err)
	}
	return nil
}

// SaveSession writes the final snapshot of an ended session.
func (s *SQLiteStore) SaveSession(ctx context.Context, snap *session.Snapshot) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions
		 SET status = ?, ended_at = ?, elapsed_seconds = ?, focused_seconds = ?,
		     focus_score = ?, distraction_count = ?
		 WHERE id = ?`,
		string(snap.Status), snap.EndedAt, snap.ElapsedSeconds, snap.FocusedSeconds,
		snap.FocusScore, len(snap.Distractions), snap.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update session %s: %w", snap.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: session %s not found", snap.ID)
	}
	return nil
}

// LogEvent appends one distraction event to a session's history.
func (s *SQLiteStore) LogEvent(ctx context.Context, sessionID string, e distraction.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO distraction_events (id, session_id, type, detail, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, sessionID, string(e.Type), e.Detail, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("store: insert event for %s: %w", sessionID, err)
	}
	return nil
}

// Record is one persisted session row.
type Record struct {
	ID               string     `json:"id"`
	Goal             string     `json:"goal"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	ElapsedSeconds   int        `json:"elapsed_seconds"`
	FocusedSeconds   int        `json:"focused_seconds"`
	FocusScore       int        `json:"focus_score"`
	DistractionCount int        `json:"distraction_count"`
}

// RecentSessions returns the latest sessions, newest first.
func (s *SQLiteStore) RecentSessions(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, goal, status, started_at, ended_at, elapsed_seconds,
		        focused_seconds, focus_score, distraction_count
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ended sql.NullTime
		if err := rows.Scan(&r.ID, &r.Goal, &r.Status, &r.StartedAt, &ended,
			&r.ElapsedSeconds, &r.FocusedSeconds, &r.FocusScore, &r.DistractionCount); err != nil {
			return nil, fmt.Errorf("store: scan session row: %w", err)
		}
		if ended.Valid {
			r.EndedAt = &ended.Time
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SessionEvents returns a session's distraction history, oldest first.
func (s *SQLiteStore) SessionEvents(ctx context.Context, sessionID string) ([]distraction.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, detail, occurred_at FROM distraction_events
		 WHERE session_id = ? ORDER BY occurred_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: query events: %w", err)
	}
	defer rows.Close()

	var events []distraction.Event
	for rows.Next() {
		var e distraction.Event
		var typ string
		if err := rows.Scan(&e.ID, &typ, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("store: scan event row: %w", err)
		}
		e.Type = distraction.Type(typ)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Stats summarizes all ended sessions.
type Stats struct {
	Sessions       int `json:"sessions"`
	FocusedMinutes int `json:"focused_minutes"`
	Distractions   int `json:"distractions"`
	AverageScore   int `json:"average_score"`
}

// Stats aggregates across everything persisted so far.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(focused_seconds) / 60, 0),
		        COALESCE(SUM(distraction_count), 0),
		        COALESCE(ROUND(AVG(focus_score)), 0)
		 FROM sessions WHERE ended_at IS NOT NULL`)

	var st Stats
	if err := row.Scan(&st.Sessions, &st.FocusedMinutes, &st.Distractions, &st.AverageScore); err != nil {
		return nil, fmt.Errorf("store: aggregate stats: %w", err)
	}
	return &st, nil
}

// Verify SQLiteStore implements session.Store at compile time.
var _ session.Store = (*SQLiteStore)(nil)
