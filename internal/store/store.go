// Package store keeps the history of validation runs.
//
// Two implementations exist: PGStore persists runs in PostgreSQL through a
// pgx pool, MemoryStore keeps the most recent runs in process and is used
// when no database is configured.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by GetRun for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps ListRuns when the caller passes no limit.
const DefaultListLimit = 50

// Run is one recorded validation run. Report holds the full JSON report.
type Run struct {
	ID        string        `json:"id"`
	FeedID    string        `json:"feed_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Infos     int           `json:"infos"`
	Valid     bool          `json:"valid"`
	Report    []byte        `json:"-"`
}

// Store records runs and reads them back, newest first.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (Run, error)
	// Prune deletes runs started before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
