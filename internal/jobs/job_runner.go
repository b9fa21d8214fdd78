package jobs

import (
	"context"
	"sync"
	"time"

	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
	"rental-backoffice/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals   repository.RentalRepository
	contracts service.ContractService
	timeout   time.Duration
	now       func() time.Time

	mu      sync.Mutex
	lastRun time.Time // start of the last contract regeneration
}

// NewJobRunner creates a job runner. Rentals closed in the day before start are
// picked up by the first regeneration.
func NewJobRunner(rentals repository.RentalRepository, contracts service.ContractService) *JobRunner {
	return &JobRunner{
		rentals:   rentals,
		contracts: contracts,
		timeout:   10 * time.Minute,
		now:       time.Now,
		lastRun:   time.Now().Add(-24 * time.Hour),
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.MarkPendingReturns()
	jr.RegenerateClosedContracts()
}
