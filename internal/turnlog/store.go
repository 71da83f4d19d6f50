// Package turnlog persists one audit row per assistant turn.
package turnlog

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one recorded turn.
type Entry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	Action      string    `json:"action,omitempty"`
	Outcome     string    `json:"outcome"`
	DurationMs  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
}

// Store reads and writes assistant_turns.
type Store struct {
	db *sql.DB
}

// New creates a Store. Migrations must already have been applied.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert records e. A zero Timestamp is replaced with the current time.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assistant_turns (timestamp, session_id, user_message, action, outcome, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.SessionID,
		e.UserMessage,
		e.Action,
		e.Outcome,
		e.DurationMs,
		e.Error,
	)
	return err
}

// List returns entries newest first, optionally filtered by action, along
// with the total number of matching rows.
func (s *Store) List(ctx context.Context, action string, limit, offset int) ([]Entry, int, error) {
	countQuery := "SELECT COUNT(*) FROM assistant_turns"
	var filterArgs []any
	if action != "" {
		countQuery += " WHERE action = ?"
		filterArgs = append(filterArgs, action)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, timestamp, session_id, user_message, action, outcome, duration_ms, error FROM assistant_turns"
	if action != "" {
		query += " WHERE action = ?"
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
	dataArgs := make([]any, 0, len(filterArgs)+2)
	dataArgs = append(dataArgs, filterArgs...)
	dataArgs = append(dataArgs, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.SessionID, &e.UserMessage, &e.Action, &e.Outcome, &e.DurationMs, &e.Error); err != nil {
			return nil, 0, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
