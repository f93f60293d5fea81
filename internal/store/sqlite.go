package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/debtlab/loan-cli/internal/engine"
	"github.com/debtlab/loan-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	preset     TEXT NOT NULL DEFAULT '',
	inputs     TEXT NOT NULL,
	status     TEXT NOT NULL,
	report     TEXT,
	error      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_preset ON runs(preset);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, preset string, inputs engine.Inputs, report *engine.Report, evalErr error) (*model.Run, error) {
	run, inputsJSON, reportJSON, err := newRun(preset, inputs, report, evalErr)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, preset, inputs, status, report, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Preset, inputsJSON, string(run.Status), reportJSON, run.Error, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, preset, inputs, status, report, error, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, preset, inputs, status, report, error, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Preset != "" {
		query += ` AND preset = ?`
		args = append(args, filter.Preset)
	}
	if !filter.CreatedAfter.IsZero() {
		query += ` AND created_at > ?`
		args = append(args, filter.CreatedAfter.UTC())
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// newRun builds the Run record and its JSON columns shared by both backends.
func newRun(preset string, inputs engine.Inputs, report *engine.Report, evalErr error) (*model.Run, string, any, error) {
	now := time.Now().UTC()
	run := &model.Run{
		ID:        uuid.New().String(),
		Preset:    preset,
		Inputs:    inputs,
		Status:    model.RunStatusComplete,
		Report:    report,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if evalErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = evalErr.Error()
		run.Report = nil
	}

	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return nil, "", nil, eris.Wrap(err, "store: marshal inputs")
	}

	var reportJSON any // nil maps to SQL NULL
	if run.Report != nil {
		b, err := json.Marshal(run.Report)
		if err != nil {
			return nil, "", nil, eris.Wrap(err, "store: marshal report")
		}
		reportJSON = string(b)
	}

	return run, string(inputsJSON), reportJSON, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var r model.Run
	var inputsJSON string
	var reportJSON sql.NullString
	var status string

	err := row.Scan(&r.ID, &r.Preset, &inputsJSON, &status, &reportJSON, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(err, "store: run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan run")
	}

	r.Status = model.RunStatus(status)
	if err := json.Unmarshal([]byte(inputsJSON), &r.Inputs); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal inputs")
	}
	if reportJSON.Valid {
		r.Report = &engine.Report{}
		if err := json.Unmarshal([]byte(reportJSON.String), r.Report); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal report")
		}
	}
	return &r, nil
}
