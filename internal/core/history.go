package core

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/JonMunkholm/transitcheck/internal/store"
)

// record saves a finished run to the history store.
func (s *Service) record(ctx context.Context, r *Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", r.RunID, err)
	}
	return s.history.SaveRun(ctx, store.Run{
		ID:        r.RunID,
		FeedID:    r.FeedID,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Errors:    r.Summary.Errors,
		Warnings:  r.Summary.Warnings,
		Infos:     r.Summary.Infos,
		Valid:     r.Summary.Valid,
		Report:    payload,
	})
}

// ListRuns returns recent runs, newest first, without their reports.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	return s.history.ListRuns(ctx, limit)
}

// GetRun returns a recorded run. Run.Report holds the JSON-encoded Report.
func (s *Service) GetRun(ctx context.Context, id string) (store.Run, error) {
	return s.history.GetRun(ctx, id)
}
