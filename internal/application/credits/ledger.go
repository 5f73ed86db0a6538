package credits

import (
	"context"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

const (
	DefaultWindow  = 30 * 24 * time.Hour
	GenerationCost = 1

	ProPoints           = 100
	FreePointsWeb       = 5
	FreePointsExtension = 3
)

// Allotment is the number of points each plan gets per window.
type Allotment struct {
	Free int64
	Pro  int64
}

// WebAllotment is used by the web app's generation and usage endpoints.
func WebAllotment() Allotment { return Allotment{Free: FreePointsWeb, Pro: ProPoints} }

// ExtensionAllotment is used by the extension's token-authenticated endpoints.
func ExtensionAllotment() Allotment { return Allotment{Free: FreePointsExtension, Pro: ProPoints} }

// Ledger is a per-user point counter over a limiter.Store. All ledgers sharing a store share balances;
// only the allotment differs. Atomicity is the store's responsibility.
type Ledger struct {
	limiters map[domain.Plan]*limiter.Limiter
	capped   bool
	now      func() time.Time
}

// CappedStore is implemented by stores that never record an increment past the rate limit. Other
// stores (the limiter's redis and memory drivers) count refused increments, so the ledger gives
// those back.
type CappedStore interface {
	CapsAtLimit() bool
}

// NewLedger builds a ledger. window <= 0 uses DefaultWindow.
func NewLedger(store limiter.Store, allotment Allotment, window time.Duration) *Ledger {
	if window <= 0 {
		window = DefaultWindow
	}
	capped := false
	if cs, ok := store.(CappedStore); ok {
		capped = cs.CapsAtLimit()
	}
	return &Ledger{
		limiters: map[domain.Plan]*limiter.Limiter{
			domain.PlanFree: limiter.New(store, limiter.Rate{Period: window, Limit: allotment.Free}),
			domain.PlanPro:  limiter.New(store, limiter.Rate{Period: window, Limit: allotment.Pro}),
		},
		capped: capped,
		now:    time.Now,
	}
}

// Consume takes GenerationCost points from the user's balance. A refused request leaves the shared
// counter unchanged, so it never eats into the allotment of another call site.
func (l *Ledger) Consume(ctx context.Context, userID string, plan domain.Plan) (*domain.Usage, error) {
	lim := l.limiterFor(plan)
	current, err := lim.Peek(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("consume credit: %w", err)
	}
	if current.Remaining < GenerationCost {
		return l.toUsage(current, plan), domerrors.ErrRateLimited
	}

	lctx, err := lim.Increment(ctx, userID, GenerationCost)
	if err != nil {
		return nil, fmt.Errorf("consume credit: %w", err)
	}
	if !lctx.Reached {
		return l.toUsage(lctx, plan), nil
	}
	// Lost a race for the last point.
	if !l.capped {
		if _, err := lim.Increment(ctx, userID, -GenerationCost); err != nil {
			return nil, fmt.Errorf("release refused credit: %w", err)
		}
	}
	return l.toUsage(lctx, plan), domerrors.ErrRateLimited
}

// Status reports the balance without consuming.
func (l *Ledger) Status(ctx context.Context, userID string, plan domain.Plan) (*domain.Usage, error) {
	lctx, err := l.limiterFor(plan).Peek(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("credit status: %w", err)
	}
	return l.toUsage(lctx, plan), nil
}

func (l *Ledger) limiterFor(plan domain.Plan) *limiter.Limiter {
	if lim, ok := l.limiters[plan]; ok {
		return lim
	}
	return l.limiters[domain.PlanFree]
}

func (l *Ledger) toUsage(lctx limiter.Context, plan domain.Plan) *domain.Usage {
	remaining := lctx.Remaining
	if remaining < 0 {
		remaining = 0
	}
	if remaining > lctx.Limit {
		remaining = lctx.Limit
	}
	reset := time.Unix(lctx.Reset, 0)
	msBeforeNext := reset.Sub(l.now()).Milliseconds()
	if msBeforeNext < 0 {
		msBeforeNext = 0
	}
	return &domain.Usage{
		RemainingPoints: remaining,
		UsedPoints:      lctx.Limit - remaining,
		TotalPoints:     lctx.Limit,
		MsBeforeNext:    msBeforeNext,
		Plan:            plan,
		ResetTime:       reset,
	}
}

var _ ports.CreditLedger = (*Ledger)(nil)
