package core

// scheduler.go prunes old validation runs from the history store.
//
// The scheduler is long-running and context-aware for graceful shutdown. It
// logs progress and errors but never stops the server when a prune fails.

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig holds configuration for the history prune scheduler.
type PruneConfig struct {
	Retention     time.Duration // How long runs are kept (default: 720h)
	CheckInterval time.Duration // How often to prune (default: 24h)
}

func (c PruneConfig) withDefaults() PruneConfig {
	if c.Retention <= 0 {
		c.Retention = 30 * 24 * time.Hour
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartPruneScheduler prunes runs older than the retention period. It runs
// immediately, then every CheckInterval, until ctx is cancelled.
func (s *Service) StartPruneScheduler(ctx context.Context, cfg PruneConfig) {
	cfg = cfg.withDefaults()
	slog.Info("prune scheduler started",
		"retention", cfg.Retention,
		"interval", cfg.CheckInterval,
	)

	// Run immediately on startup
	s.runPruneJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("prune scheduler stopped")
			return
		case <-ticker.C:
			s.runPruneJob(ctx, cfg)
		}
	}
}

// runPruneJob performs one prune cycle.
func (s *Service) runPruneJob(ctx context.Context, cfg PruneConfig) int64 {
	start := time.Now()
	pruned, err := s.history.Prune(ctx, start.Add(-cfg.Retention))
	if err != nil {
		slog.Error("prune failed", "error", err)
		return 0
	}
	slog.Info("pruned validation runs",
		"runs_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pruned
}
