package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

// SessionTokens validates RS256 web session tokens from the identity provider.
// When constructed with a private key it can also issue them (development and tests).
type SessionTokens struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Plan    string `json:"plan,omitempty"`
}

// NewSessionVerifier returns a verify-only SessionTokens. Empty issuer/audience are not checked.
func NewSessionVerifier(publicKey *rsa.PublicKey, issuer, audience string) *SessionTokens {
	return &SessionTokens{publicKey: publicKey, issuer: issuer, audience: audience}
}

// NewSessionIssuer returns a SessionTokens that can sign and verify.
func NewSessionIssuer(privateKey *rsa.PrivateKey, issuer, audience string) *SessionTokens {
	return &SessionTokens{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		audience:   audience,
	}
}

// IssueSession signs a session token for identity.
func (t *SessionTokens) IssueSession(identity domain.Identity, expiresIn time.Duration) (string, error) {
	if t.privateKey == nil {
		return "", errors.New("session issuer has no private key")
	}
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.ProfileImage,
		Plan:    string(identity.Plan),
	}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(t.privateKey)
}

// VerifySession implements ports.SessionVerifier.
func (t *SessionTokens) VerifySession(tokenString string) (*domain.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired()}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.publicKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("session token has no subject")
	}
	return &domain.Identity{
		UserID:       claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		ProfileImage: claims.Picture,
		Plan:         domain.ParsePlan(claims.Plan),
	}, nil
}

var _ ports.SessionVerifier = (*SessionTokens)(nil)
