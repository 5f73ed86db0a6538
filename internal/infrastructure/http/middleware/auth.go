package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// SessionCookieName is the cookie the identity provider sets on the web app's domain.
const SessionCookieName = "__session"

// SessionAuth validates the web session JWT (Bearer header or session cookie) and sets the identity in context.
type SessionAuth struct {
	verifier ports.SessionVerifier
}

func NewSessionAuth(verifier ports.SessionVerifier) *SessionAuth {
	return &SessionAuth{verifier: verifier}
}

func (m *SessionAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			if c, err := r.Cookie(SessionCookieName); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			writeErr(w, http.StatusUnauthorized, errCodeUnauthorized, "Unauthorized")
			return
		}
		identity, err := m.verifier.VerifySession(token)
		if err != nil {
			RecordAuthAttempt("session", false)
			writeErr(w, http.StatusUnauthorized, errCodeUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// ExtensionTokenVerifier resolves an extension token to its holder.
type ExtensionTokenVerifier interface {
	Execute(ctx context.Context, token string) (*domain.Identity, error)
}

// ExtensionAuth validates the extension's Bearer token and sets the identity in context.
type ExtensionAuth struct {
	verifier ExtensionTokenVerifier
	log      zerolog.Logger
}

func NewExtensionAuth(verifier ExtensionTokenVerifier, log zerolog.Logger) *ExtensionAuth {
	return &ExtensionAuth{verifier: verifier, log: log}
}

func (m *ExtensionAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.Authenticate(w, r, BearerToken(r))
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Authenticate verifies token and writes the 401 itself on failure. Handlers that accept the token
// in the request body call it directly.
func (m *ExtensionAuth) Authenticate(w http.ResponseWriter, r *http.Request, token string) (*domain.Identity, bool) {
	if token == "" {
		writeErr(w, http.StatusUnauthorized, errCodeUnauthorized, "Unauthorized")
		return nil, false
	}
	identity, err := m.verifier.Execute(r.Context(), token)
	switch {
	case err == nil:
		RecordAuthAttempt("extension_token", true)
		return identity, true
	case errors.Is(err, domerrors.ErrTokenExpired):
		RecordAuthAttempt("extension_token", false)
		writeErr(w, http.StatusUnauthorized, errCodeTokenExpired, "Token expired")
	case errors.Is(err, domerrors.ErrTokenInvalidStructure):
		RecordAuthAttempt("extension_token", false)
		writeErr(w, http.StatusUnauthorized, errCodeInvalidToken, "Invalid token")
	default:
		m.log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("extension token verification failed")
		writeErr(w, http.StatusInternalServerError, errCodeInternal, "internal error")
	}
	return nil, false
}

// BearerToken returns the token from "Authorization: Bearer <token>", or "".
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
