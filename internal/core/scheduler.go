package core

// scheduler.go runs background maintenance for the validation history.
//
// The pruner deletes history entries older than the retention window. It
// runs once on start and then every CheckInterval until its context ends.
// Failures are logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig holds configuration for the history pruner.
type PruneConfig struct {
	RetentionDays int           // Days of history to keep (default: 90)
	CheckInterval time.Duration // How often to run (default: 24h)
}

func (c PruneConfig) withDefaults() PruneConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 90
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartHistoryPruner blocks, pruning history periodically until ctx is
// cancelled. Run it in its own goroutine.
func (s *Service) StartHistoryPruner(ctx context.Context, cfg PruneConfig) {
	cfg = cfg.withDefaults()
	slog.Info("history pruner started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval,
	)

	s.pruneHistory(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history pruner stopped")
			return
		case <-ticker.C:
			s.pruneHistory(ctx, cfg)
		}
	}
}

// pruneHistory performs one prune pass.
func (s *Service) pruneHistory(ctx context.Context, cfg PruneConfig) {
	start := time.Now()
	cutoff := start.AddDate(0, 0, -cfg.RetentionDays)

	pruned, err := s.history.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return
	}
	slog.Info("pruned validation history",
		"entries_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
