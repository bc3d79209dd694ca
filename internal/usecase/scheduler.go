package usecase

import (
	"context"
	"time"

	"NewsHarvester/internal/ports"
)

// Scheduler wires the cron driver with recurring ingestion passes.
type Scheduler struct {
	driver ports.Scheduler
	pass   func(context.Context)
}

// NewScheduler returns a helper to start/stop the recurring pass.
func NewScheduler(driver ports.Scheduler, pass func(context.Context)) *Scheduler {
	return &Scheduler{driver: driver, pass: pass}
}

// Start registers the ingestion pass with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pass == nil {
		return nil
	}

	job := func(time.Time) {
		s.pass(ctx)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
