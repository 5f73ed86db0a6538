package ports

import (
	"time"

	"github.com/uiscraper/backend/internal/domain"
)

// SessionVerifier validates web session tokens issued by the identity provider.
type SessionVerifier interface {
	VerifySession(tokenString string) (*domain.Identity, error)
}

// ExtensionTokenCodec mints and verifies the extension's bearer token.
type ExtensionTokenCodec interface {
	Mint(identity domain.Identity, now time.Time) (string, error)
	Verify(token string, now time.Time) (*domain.Identity, error)
}
