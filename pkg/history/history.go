// Package history keeps a local log of generated reports in SQLite.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one successfully generated report.
type RunRecord struct {
	ID        int64
	Client    string
	AccountID string
	Since     string
	Until     string
	URL       string
	CreatedAt time.Time
}

type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the run-history database and ensures the schema
// exists.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS report_runs (
  id         INTEGER PRIMARY KEY,
  client     TEXT NOT NULL,
  account_id TEXT NOT NULL,
  since      TEXT NOT NULL,
  until_     TEXT NOT NULL,
  url        TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_client ON report_runs(client, created_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Record appends one run to the log.
func (d *DB) Record(ctx context.Context, r RunRecord) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO report_runs (client, account_id, since, until_, url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.Client, r.AccountID, r.Since, r.Until, r.URL, time.Now().UTC())
	return err
}

// Recent returns the latest n runs, newest first.
func (d *DB) Recent(ctx context.Context, n int) ([]RunRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, client, account_id, since, until_, url, created_at FROM report_runs ORDER BY created_at DESC, id DESC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Client, &r.AccountID, &r.Since, &r.Until, &r.URL, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
