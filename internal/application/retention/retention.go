package retention

import (
	"context"
	"time"

	"github.com/uiscraper/backend/internal/application/ports"
)

// RunPruneExpiredUsage deletes ledger rows whose window closed more than keepAfterExpiry ago.
// Call periodically (the worker schedules it daily). keepAfterExpiry < 0 = no-op.
func RunPruneExpiredUsage(ctx context.Context, pruner ports.UsagePruner, keepAfterExpiry time.Duration, now time.Time) (pruned int64, err error) {
	if keepAfterExpiry < 0 {
		return 0, nil
	}
	return pruner.DeleteExpiredUsage(ctx, now.Add(-keepAfterExpiry))
}
