package ports

import (
	"context"
	"time"

	"github.com/uiscraper/backend/internal/domain"
)

// CreditLedger meters generation requests against a user's plan allotment.
type CreditLedger interface {
	// Consume takes one point; returns errors.ErrRateLimited (with the current usage) when the balance is exhausted.
	Consume(ctx context.Context, userID string, plan domain.Plan) (*domain.Usage, error)
	Status(ctx context.Context, userID string, plan domain.Plan) (*domain.Usage, error)
}

// UsagePruner removes ledger rows whose window ended before the cutoff.
type UsagePruner interface {
	DeleteExpiredUsage(ctx context.Context, before time.Time) (int64, error)
}
