// Package history records answered queries in SQLite so callers can
// review what was asked about a document and how confident the answers
// were.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one answered query.
type Entry struct {
	ID             int64     `json:"id"`
	DocumentID     string    `json:"documentId"`
	Query          string    `json:"query"`
	Answer         string    `json:"answer"`
	Confidence     float64   `json:"confidence"`
	ProcessingTime float64   `json:"processingTime"`
	CreatedAt      time.Time `json:"createdAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS query_history (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id     TEXT NOT NULL,
	query           TEXT NOT NULL,
	answer          TEXT NOT NULL,
	confidence      REAL NOT NULL,
	processing_time REAL NOT NULL,
	created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_query_history_document
	ON query_history (document_id, created_at DESC);
`

// Store persists query history entries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one answered query.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_history (document_id, query, answer, confidence, processing_time)
		VALUES (?, ?, ?, ?, ?)`,
		entry.DocumentID,
		entry.Query,
		entry.Answer,
		entry.Confidence,
		entry.ProcessingTime,
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// List returns the most recent entries for a document, newest first.
// A non-positive limit defaults to 50.
func (s *Store) List(ctx context.Context, documentID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, query, answer, confidence, processing_time, created_at
		FROM query_history
		WHERE document_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.Query, &e.Answer, &e.Confidence, &e.ProcessingTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
