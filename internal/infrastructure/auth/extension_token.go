package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// ExtensionTokenTTL is how long a minted extension token is accepted.
const ExtensionTokenTTL = 24 * time.Hour

// extensionTokenPayload is the JSON inside the token. Field names are shared with the extension.
type extensionTokenPayload struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	Timestamp    int64  `json:"timestamp"` // unix millis
}

// ExtensionTokens encodes identities as base64 JSON. The token is not signed: anyone able to
// build the JSON can present it. Validity is structure plus age only.
type ExtensionTokens struct {
	ttl time.Duration
}

// NewExtensionTokens returns a codec; ttl <= 0 uses ExtensionTokenTTL.
func NewExtensionTokens(ttl time.Duration) *ExtensionTokens {
	if ttl <= 0 {
		ttl = ExtensionTokenTTL
	}
	return &ExtensionTokens{ttl: ttl}
}

func (c *ExtensionTokens) Mint(identity domain.Identity, now time.Time) (string, error) {
	body, err := json.Marshal(extensionTokenPayload{
		UserID:       identity.UserID,
		Email:        identity.Email,
		Name:         identity.Name,
		ProfileImage: identity.ProfileImage,
		Timestamp:    now.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(body), nil
}

// Verify returns ErrTokenMalformed for undecodable input, ErrTokenInvalidStructure when userId or
// email is missing, and ErrTokenExpired when the token is at least ttl old. Plan is left unset.
func (c *ExtensionTokens) Verify(token string, now time.Time) (*domain.Identity, error) {
	raw, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return nil, domerrors.ErrTokenMalformed
	}
	var p extensionTokenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, domerrors.ErrTokenMalformed
	}
	if p.UserID == "" || p.Email == "" {
		return nil, domerrors.ErrTokenInvalidStructure
	}
	issued := time.UnixMilli(p.Timestamp)
	if now.Sub(issued) >= c.ttl {
		return nil, domerrors.ErrTokenExpired
	}
	return &domain.Identity{
		UserID:       p.UserID,
		Email:        p.Email,
		Name:         p.Name,
		ProfileImage: p.ProfileImage,
	}, nil
}

func decodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, base64.CorruptInputError(0)
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, base64.CorruptInputError(0)
}

var _ ports.ExtensionTokenCodec = (*ExtensionTokens)(nil)
