package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"rental-backoffice/internal/config"
	"rental-backoffice/internal/jobs"
	"rental-backoffice/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler and registers the jobs at the configured specs
func NewScheduler(jobRunner *jobs.JobRunner, cfg config.SchedulerConfig) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs(cfg)
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler. An invalid spec
// is logged and skips that job only.
func (s *Scheduler) registerJobs(cfg config.SchedulerConfig) {
	registered := 0

	if _, err := s.cron.AddFunc(cfg.MarkPendingReturns, s.jobs.MarkPendingReturns); err != nil {
		logger.Error("Failed to register MarkPendingReturns job", "spec", cfg.MarkPendingReturns, "error", err)
	} else {
		registered++
	}

	// Nightly
	if _, err := s.cron.AddFunc(cfg.RegenerateContracts, s.jobs.RegenerateClosedContracts); err != nil {
		logger.Error("Failed to register RegenerateClosedContracts job", "spec", cfg.RegenerateContracts, "error", err)
	} else {
		registered++
	}

	logger.Info("Cron jobs registered", "count", registered)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if any job is registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
