package services

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls how long persisted analyses are kept and how
// often the janitor runs.
type RetentionConfig struct {
	AnalysisRetentionDays int `mapstructure:"analysis_retention_days"`
	CleanupIntervalHours  int `mapstructure:"cleanup_interval_hours"`
}

// AnalysisPruner removes analyses created before the cutoff and reports how
// many rows were deleted.
type AnalysisPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionService periodically prunes old analyses from storage.
type RetentionService struct {
	pruner AnalysisPruner
	config RetentionConfig
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRetentionService(pruner AnalysisPruner, config RetentionConfig, logger *slog.Logger) *RetentionService {
	return &RetentionService{
		pruner: pruner,
		config: config,
		logger: logger,
	}
}

// Start launches the periodic cleanup loop. An initial pass runs
// immediately so a long-stopped instance catches up on restart.
func (s *RetentionService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Info("starting retention service",
		"retention_days", s.config.AnalysisRetentionDays,
		"interval_hours", s.config.CleanupIntervalHours)

	go func() {
		defer close(s.done)

		s.runOnce(ctx)

		ticker := time.NewTicker(time.Duration(s.config.CleanupIntervalHours) * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (s *RetentionService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("retention service stopped")
}

// RunOnce performs a single cleanup pass, for manual or test invocation.
func (s *RetentionService) RunOnce(ctx context.Context) error {
	return s.prune(ctx)
}

func (s *RetentionService) runOnce(ctx context.Context) {
	if err := s.prune(ctx); err != nil {
		s.logger.Error("analysis cleanup failed", "error", err.Error())
	}
}

func (s *RetentionService) prune(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.AnalysisRetentionDays)

	deleted, err := s.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("pruned old analyses", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
