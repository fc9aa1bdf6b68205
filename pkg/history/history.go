// Package history records pricing calls to a local SQLite database for
// offline inspection and benchmarking, following the embedded-SQLite
// pattern in stadam23-Eve-flipper's internal/db package: a single file,
// schema-versioned migration on Open, pragmas tuned for a single local
// writer.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection holding the pricing-call history.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs
// migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return d, nil
}

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

		CREATE TABLE IF NOT EXISTS pricing_calls (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      TEXT NOT NULL,
			method         TEXT NOT NULL,
			side           TEXT NOT NULL,
			style          TEXT NOT NULL,
			spot           REAL NOT NULL,
			strike         REAL NOT NULL,
			rate           REAL NOT NULL,
			vol            REAL NOT NULL,
			time_to_expiry REAL NOT NULL,
			seed           INTEGER NOT NULL,
			price          REAL NOT NULL,
			compute_ms      REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pricing_calls_ts ON pricing_calls(timestamp);
	`)
	return err
}

// Close closes the underlying database connection.
func (d *DB) Close() error { return d.sql.Close() }

// CallRecord is one logged pricing call.
type CallRecord struct {
	Timestamp  time.Time
	Method     string
	Side       string
	Style      string
	Spot       float64
	Strike     float64
	Rate       float64
	Vol        float64
	Time       float64
	Seed       uint64
	Price      float64
	ComputeMS  float64
}

// Record appends one pricing call to the history table.
func (d *DB) Record(r CallRecord) error {
	_, err := d.sql.Exec(`
		INSERT INTO pricing_calls
			(timestamp, method, side, style, spot, strike, rate, vol, time_to_expiry, seed, price, compute_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Timestamp.Format(time.RFC3339), r.Method, r.Side, r.Style,
		r.Spot, r.Strike, r.Rate, r.Vol, r.Time, r.Seed, r.Price, r.ComputeMS)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns the limit most recent pricing calls, newest first.
func (d *DB) Recent(limit int) ([]CallRecord, error) {
	rows, err := d.sql.Query(`
		SELECT timestamp, method, side, style, spot, strike, rate, vol, time_to_expiry, seed, price, compute_ms
		FROM pricing_calls ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		var r CallRecord
		var ts string
		if err := rows.Scan(&ts, &r.Method, &r.Side, &r.Style, &r.Spot, &r.Strike, &r.Rate, &r.Vol, &r.Time, &r.Seed, &r.Price, &r.ComputeMS); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}
