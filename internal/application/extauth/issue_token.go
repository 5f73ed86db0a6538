package extauth

import (
	"context"
	"fmt"
	"time"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// IssueExtensionTokenResult is the token plus the profile the extension displays.
type IssueExtensionTokenResult struct {
	Token string
	User  domain.Identity
}

// IssueExtensionToken mints an extension token for the current web session and records the
// session's plan so token-authenticated calls can size the user's allotment.
type IssueExtensionToken struct {
	codec ports.ExtensionTokenCodec
	plans ports.PlanStore
	now   func() time.Time
}

// NewIssueExtensionToken builds the use case.
func NewIssueExtensionToken(codec ports.ExtensionTokenCodec, plans ports.PlanStore) *IssueExtensionToken {
	return &IssueExtensionToken{codec: codec, plans: plans, now: time.Now}
}

// Execute mints the token. Sessions without a user id or email are refused, since a token
// lacking either one is rejected on verification.
func (uc *IssueExtensionToken) Execute(ctx context.Context, identity domain.Identity) (*IssueExtensionTokenResult, error) {
	if identity.UserID == "" || identity.Email == "" {
		return nil, fmt.Errorf("session has no user id or email: %w", domerrors.ErrUnauthenticated)
	}
	if err := uc.plans.SetPlan(ctx, identity.UserID, identity.Plan); err != nil {
		return nil, err
	}
	token, err := uc.codec.Mint(identity, uc.now())
	if err != nil {
		return nil, err
	}
	return &IssueExtensionTokenResult{Token: token, User: identity}, nil
}
