// Package scenario persists named pricing scenarios (instrument
// parameters a user wants to re-price repeatedly) in Postgres. Adapted
// from the circuit registry in perclft-QubitEngine's services/registry:
// same table-per-record/JSONB-parameter-blob/run-count shape, repointed
// at option scenarios instead of quantum circuits.
package scenario

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Params captures one instrument's pricing parameters, serialized to
// JSONB in the scenarios table.
type Params struct {
	Method          string    `json:"method"`
	Side            string    `json:"side"`
	Style           string    `json:"style"`
	Spot            float64   `json:"spot"`
	Strike          float64   `json:"strike"`
	Rate            float64   `json:"rate"`
	Vol             float64   `json:"vol"`
	Time            float64   `json:"time"`
	ExerciseDates   []float64 `json:"exercise_dates,omitempty"`
	NumObservations int       `json:"num_observations,omitempty"`
}

// Record is one stored scenario.
type Record struct {
	ID        string
	Name      string
	Author    string
	Tags      []string
	Params    Params
	RunCount  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store wraps a *sql.DB opened against a Postgres connection string.
type Store struct {
	db *sql.DB
}

// Open opens dsn (a Postgres connection string) and returns a Store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("scenario: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Init creates the scenarios table if it does not already exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scenarios (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL DEFAULT 'anonymous',
			tags JSONB DEFAULT '[]',
			params JSONB NOT NULL,
			run_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scenarios_author ON scenarios(author);
	`)
	if err != nil {
		return fmt.Errorf("scenario: init schema: %w", err)
	}
	return nil
}

// Save inserts a new scenario and returns its generated ID.
func (s *Store) Save(ctx context.Context, name, author string, tags []string, params Params) (string, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("scenario: marshal params: %w", err)
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("scenario: marshal tags: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO scenarios (name, author, tags, params)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, author, string(tagsJSON), string(paramsJSON)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("scenario: insert: %w", err)
	}
	return id, nil
}

// Load retrieves a scenario by ID, incrementing its run count.
func (s *Store) Load(ctx context.Context, id string) (Record, error) {
	var rec Record
	var paramsJSON, tagsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, author, tags, params, run_count, created_at, updated_at
		FROM scenarios WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Name, &rec.Author, &tagsJSON, &paramsJSON, &rec.RunCount, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("scenario: not found: %s", id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("scenario: query: %w", err)
	}

	if err := json.Unmarshal([]byte(paramsJSON), &rec.Params); err != nil {
		return Record{}, fmt.Errorf("scenario: unmarshal params: %w", err)
	}
	json.Unmarshal([]byte(tagsJSON), &rec.Tags)

	if _, err := s.db.ExecContext(ctx, `UPDATE scenarios SET run_count = run_count + 1 WHERE id = $1`, id); err != nil {
		return Record{}, fmt.Errorf("scenario: increment run count: %w", err)
	}
	return rec, nil
}

// ListByAuthor returns every scenario saved by author, newest first.
func (s *Store) ListByAuthor(ctx context.Context, author string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, author, tags, params, run_count, created_at, updated_at
		FROM scenarios WHERE author = $1 ORDER BY created_at DESC
	`, author)
	if err != nil {
		return nil, fmt.Errorf("scenario: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var paramsJSON, tagsJSON string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Author, &tagsJSON, &paramsJSON, &rec.RunCount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scenario: scan: %w", err)
		}
		json.Unmarshal([]byte(paramsJSON), &rec.Params)
		json.Unmarshal([]byte(tagsJSON), &rec.Tags)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }
