package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS validation_runs (
	id          TEXT PRIMARY KEY,
	feed_id     TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL,
	errors      INTEGER NOT NULL,
	warnings    INTEGER NOT NULL,
	infos       INTEGER NOT NULL,
	valid       BOOLEAN NOT NULL,
	report      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS validation_runs_started_at_idx ON validation_runs (started_at DESC);
`

const runColumns = `id, feed_id, started_at, duration_ms, errors, warnings, infos, valid, report`

// PGStore records runs in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates the runs table if it is missing.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, createRunsTable); err != nil {
		return nil, fmt.Errorf("create validation_runs: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) SaveRun(ctx context.Context, run Run) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO validation_runs (`+runColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.FeedID, run.StartedAt, run.Duration.Milliseconds(),
		run.Errors, run.Warnings, run.Infos, run.Valid, string(run.Report),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

func (s *PGStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+runColumns+` FROM validation_runs ORDER BY started_at DESC LIMIT $1`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *PGStore) GetRun(ctx context.Context, id string) (Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+runColumns+` FROM validation_runs WHERE id = $1`, id)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	run, err := pgx.CollectExactlyOneRow(rows, scanRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

func (s *PGStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM validation_runs WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRun(row pgx.CollectableRow) (Run, error) {
	var (
		r      Run
		millis int64
		report string
	)
	err := row.Scan(&r.ID, &r.FeedID, &r.StartedAt, &millis,
		&r.Errors, &r.Warnings, &r.Infos, &r.Valid, &report)
	r.Duration = time.Duration(millis) * time.Millisecond
	r.Report = []byte(report)
	return r, err
}

var _ Store = (*PGStore)(nil)
