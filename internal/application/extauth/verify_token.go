package extauth

import (
	"context"
	"time"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

// VerifyExtensionToken decodes an extension token and resolves the holder's plan. Nothing is written.
type VerifyExtensionToken struct {
	codec ports.ExtensionTokenCodec
	plans ports.PlanStore
	now   func() time.Time
}

// NewVerifyExtensionToken builds the use case.
func NewVerifyExtensionToken(codec ports.ExtensionTokenCodec, plans ports.PlanStore) *VerifyExtensionToken {
	return &VerifyExtensionToken{codec: codec, plans: plans, now: time.Now}
}

// Execute returns the token's identity or one of ErrTokenMalformed, ErrTokenInvalidStructure, ErrTokenExpired.
func (uc *VerifyExtensionToken) Execute(ctx context.Context, token string) (*domain.Identity, error) {
	identity, err := uc.codec.Verify(token, uc.now())
	if err != nil {
		return nil, err
	}
	plan, err := uc.plans.GetPlan(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	identity.Plan = plan
	return identity, nil
}
