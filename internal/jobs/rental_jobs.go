package jobs

import (
	"context"

	"rental-backoffice/internal/logger"
)

// MarkPendingReturns flags active rentals that are past their expected return date
func (jr *JobRunner) MarkPendingReturns() {
	jr.runWithRecovery("MarkPendingReturns", func(ctx context.Context) {
		n, err := jr.rentals.MarkPendingReturns(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to mark pending returns", "error", err)
			return
		}
		logger.Info("Marked rentals as pending return", "count", n)
	})
}

// RegenerateClosedContracts rewrites the contracts of rentals closed since the previous
// run so the stored documents carry the actual return section. A failed rental does not
// stop the others; the window only advances when the listing succeeds.
func (jr *JobRunner) RegenerateClosedContracts() {
	jr.runWithRecovery("RegenerateClosedContracts", func(ctx context.Context) {
		jr.mu.Lock()
		defer jr.mu.Unlock()

		start := jr.now()
		ids, err := jr.rentals.ListClosedSince(ctx, jr.lastRun)
		if err != nil {
			logger.Error("Failed to list closed rentals", "error", err)
			return
		}

		generated, failed := 0, 0
		for _, id := range ids {
			if ctx.Err() != nil {
				logger.Warn("Contract regeneration interrupted", "remaining", len(ids)-generated-failed)
				return
			}
			name, err := jr.contracts.GenerateContract(ctx, id)
			if err != nil {
				failed++
				logger.Error("Failed to regenerate contract", "rentalID", id, "error", err)
				continue
			}
			generated++
			logger.Debug("Contract regenerated", "rentalID", id, "file", name)
		}

		jr.lastRun = start
		logger.Info("Regenerated contracts", "count", generated, "failed", failed)
	})
}
