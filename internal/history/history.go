// Package history persists emitted scene descriptions in sqlite so the
// status API can show what was recently said to whom.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/intelevision/go-intelevision/pkg/pipeline"
)

// Entry is one persisted description.
type Entry struct {
	ID          int64           `json:"id"`
	ClientID    string          `json:"clientId"`
	Description string          `json:"description"`
	Fallback    bool            `json:"fallback"`
	DataUsed    json.RawMessage `json:"dataUsed"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store is a sqlite-backed description log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %q: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS descriptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id TEXT NOT NULL,
			description TEXT NOT NULL,
			fallback INTEGER NOT NULL DEFAULT 0,
			data_used TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_descriptions_client
			ON descriptions(client_id, created_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one emitted result.
func (s *Store) Record(clientID string, res *pipeline.Result) error {
	dataUsed, err := json.Marshal(res.DataUsed)
	if err != nil {
		return fmt.Errorf("history: marshal summary: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO descriptions (client_id, description, fallback, data_used, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		clientID, res.Description, boolToInt(res.Fallback), string(dataUsed),
		time.UnixMilli(res.Timestamp).UTC(),
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, client_id, description, fallback, data_used, created_at
		 FROM descriptions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fallback int
		var dataUsed string
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Description, &fallback, &dataUsed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Fallback = fallback != 0
		e.DataUsed = json.RawMessage(dataUsed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Verify Store satisfies the pipeline's history sink at compile time.
var _ pipeline.History = (*Store)(nil)
