package usecase

import (
	"context"
	"log/slog"
	"time"

	"AlignmentScorer/internal/ports"
)

// Scheduler re-runs the pipeline whenever its trigger fires.
type Scheduler struct {
	driver   ports.Trigger
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Trigger, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided trigger. A failed run is
// logged and the next trigger tries again.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		run, err := s.pipeline.Run(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scoring run failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scoring run finished", "trigger", trigger, "run", run.ID)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying trigger.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
