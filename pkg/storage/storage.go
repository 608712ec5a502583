package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id                   INTEGER PRIMARY KEY,
  started_at           DATETIME NOT NULL,
  finished_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  input                TEXT NOT NULL,
  structure            TEXT NOT NULL,
  session              TEXT NOT NULL,
  format               TEXT NOT NULL,
  roi                  TEXT,
  excluded_domains     TEXT,
  initial_contacts     INTEGER NOT NULL,
  validated_contacts   INTEGER NOT NULL,
  downgraded_contacts  INTEGER NOT NULL,
  validated_pairs      INTEGER NOT NULL,
  total_pairs          INTEGER NOT NULL,
  excluded_by_domain   INTEGER NOT NULL,
  out_of_roi           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_time ON runs(started_at);
CREATE TABLE IF NOT EXISTS measurements (
  id      INTEGER PRIMARY KEY,
  run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  name    TEXT NOT NULL,
  resi1   INTEGER NOT NULL,
  atom1   TEXT NOT NULL,
  resi2   INTEGER NOT NULL,
  atom2   TEXT NOT NULL,
  status  TEXT NOT NULL CHECK (status IN ('accepted','downgraded'))
);
CREATE INDEX IF NOT EXISTS idx_measurements_run ON measurements(run_id);
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

// RecordRun stores a finished run and its measurements, returning the run id.
func (d *DB) RecordRun(ctx context.Context, run Run, measurements []Measurement) (id int64, err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `INSERT INTO runs(started_at, finished_at, input, structure, session, format, roi, excluded_domains, initial_contacts, validated_contacts, downgraded_contacts, validated_pairs, total_pairs, excluded_by_domain, out_of_roi) VALUES(?,CURRENT_TIMESTAMP,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.StartedAt.UTC().Format(timeLayout), run.Input, run.Structure, run.Session, run.Format, nullIfEmpty(run.ROI), nullIfEmpty(run.ExcludedDomains),
		run.InitialContacts, run.ValidatedContacts, run.DowngradedContacts, run.ValidatedPairs, run.TotalPairs, run.ExcludedByDomain, run.OutOfROI)
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO measurements(run_id, name, resi1, atom1, resi2, atom2, status) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, m := range measurements {
		if _, err = stmt.ExecContext(ctx, id, m.Name, m.Resi1, m.Atom1, m.Resi2, m.Atom2, m.Status); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns the most recent N runs.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	q := "SELECT id, started_at, input, structure, session, format, roi, excluded_domains, initial_contacts, validated_contacts, downgraded_contacts, validated_pairs, total_pairs, excluded_by_domain, out_of_roi FROM runs ORDER BY started_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var startedAtStr string
		var roiNS, excludedNS sql.NullString
		if err := rows.Scan(&r.ID, &startedAtStr, &r.Input, &r.Structure, &r.Session, &r.Format, &roiNS, &excludedNS,
			&r.InitialContacts, &r.ValidatedContacts, &r.DowngradedContacts, &r.ValidatedPairs, &r.TotalPairs, &r.ExcludedByDomain, &r.OutOfROI); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(startedAtStr)
		r.ROI = roiNS.String
		r.ExcludedDomains = excludedNS.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListMeasurements returns the measurements drawn by a run, in drawing order.
func (d *DB) ListMeasurements(ctx context.Context, runID int64) ([]Measurement, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT name, resi1, atom1, resi2, atom2, status FROM measurements WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.Name, &m.Resi1, &m.Atom1, &m.Resi2, &m.Atom2, &m.Status); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		var exists int
		if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists); err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, fmt.Errorf("run %d not found", runID)
		}
	}
	return out, nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime reads SQLite CURRENT_TIMESTAMP values, falling back to RFC3339.
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
