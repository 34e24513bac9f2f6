package core

// scheduler.go runs background maintenance for processing history.
//
// The retention job deletes history rows older than the configured number
// of days. It runs once at start and then every CheckInterval until its
// context is cancelled. A failed run is logged and retried on the next
// tick; it never stops the application.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the history retention job.
type RetentionConfig struct {
	RetentionDays int           // Days to keep history; <= 0 disables the job
	BatchSize     int           // Max rows per delete (default: 5000)
	CheckInterval time.Duration // How often to run (default: 24h)
}

const (
	defaultPruneBatchSize = 5000
	defaultPruneInterval  = 24 * time.Hour
)

// StartRetentionScheduler prunes old history until ctx is cancelled. It
// returns immediately when retention is disabled or the history store
// cannot prune. Run it in its own goroutine.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	pruner, ok := s.history.(HistoryPruner)
	if !ok || cfg.RetentionDays <= 0 {
		slog.Debug("history retention disabled")
		return
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultPruneBatchSize
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultPruneInterval
	}

	slog.Info("retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"batch_size", cfg.BatchSize,
		"interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, pruner, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, pruner, cfg)
		}
	}
}

// runRetentionJob performs one prune cycle.
func (s *Service) runRetentionJob(ctx context.Context, pruner HistoryPruner, cfg RetentionConfig) {
	start := time.Now()
	cutoff := start.UTC().AddDate(0, 0, -cfg.RetentionDays)

	pruned, err := pruner.Prune(ctx, cutoff, cfg.BatchSize)
	if err != nil {
		slog.Error("history prune failed",
			"error", err,
			"entries_pruned", pruned,
		)
		return
	}

	slog.Info("pruned history entries",
		"entries_pruned", pruned,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
