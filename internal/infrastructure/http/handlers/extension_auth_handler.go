package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/extauth"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
)

// ExtensionAuthHandler serves the web-session to extension-token bridge.
type ExtensionAuthHandler struct {
	issue  *extauth.IssueExtensionToken
	verify *extauth.VerifyExtensionToken
	log    zerolog.Logger
}

func NewExtensionAuthHandler(issue *extauth.IssueExtensionToken, verify *extauth.VerifyExtensionToken, log zerolog.Logger) *ExtensionAuthHandler {
	return &ExtensionAuthHandler{issue: issue, verify: verify, log: log}
}

type issueTokenResponse struct {
	Status string       `json:"status"`
	Token  string       `json:"token"`
	User   userResponse `json:"user"`
}

// Issue handles GET /api/auth/extension. Requires SessionAuth.
func (h *ExtensionAuthHandler) Issue(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return
	}
	res, err := h.issue.Execute(r.Context(), *identity)
	if err != nil {
		AuditLog(h.log, r, EventExtensionTokenIssued, identity.UserID, false, err.Error())
		writeDomainErr(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, EventExtensionTokenIssued, identity.UserID, true, "")
	writeJSON(w, http.StatusOK, issueTokenResponse{Status: statusSuccess, Token: res.Token, User: toUserResponse(res.User)})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Status string       `json:"status"`
	User   userResponse `json:"user"`
}

// Verify handles POST /api/auth/verify-extension-token.
func (h *ExtensionAuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Token is required")
		return
	}
	identity, err := h.verify.Execute(r.Context(), req.Token)
	if err != nil {
		AuditLog(h.log, r, EventExtensionTokenVerified, "", false, err.Error())
		switch {
		case errors.Is(err, domerrors.ErrTokenMalformed):
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidTokenFmt, "Invalid token format")
		case errors.Is(err, domerrors.ErrTokenExpired):
			writeErr(w, http.StatusUnauthorized, ErrCodeTokenExpired, "Token expired")
		case errors.Is(err, domerrors.ErrTokenInvalidStructure):
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid token")
		default:
			writeDomainErr(w, h.log, r, err)
		}
		return
	}
	AuditLog(h.log, r, EventExtensionTokenVerified, identity.UserID, true, "")
	writeJSON(w, http.StatusOK, verifyTokenResponse{Status: statusSuccess, User: toUserResponse(*identity)})
}
