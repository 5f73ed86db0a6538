package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/bookmark"
	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
)

// ExtensionHandler serves the endpoints the browser extension calls with its token.
type ExtensionHandler struct {
	auth          *middleware.ExtensionAuth
	ledger        ports.CreditLedger
	generate      *generation.CreateGeneration
	saveBookmark  *bookmark.SaveBookmark
	listBookmarks *bookmark.ListBookmarks
	log           zerolog.Logger
}

// NewExtensionHandler builds the handler. ledger and generate must be sized with the extension allotment.
func NewExtensionHandler(
	auth *middleware.ExtensionAuth,
	ledger ports.CreditLedger,
	generate *generation.CreateGeneration,
	saveBookmark *bookmark.SaveBookmark,
	listBookmarks *bookmark.ListBookmarks,
	log zerolog.Logger,
) *ExtensionHandler {
	return &ExtensionHandler{
		auth:          auth,
		ledger:        ledger,
		generate:      generate,
		saveBookmark:  saveBookmark,
		listBookmarks: listBookmarks,
		log:           log,
	}
}

type usageEnvelope struct {
	Status string         `json:"status"`
	Usage  *usageResponse `json:"usage"`
}

// Usage handles GET /api/extension/usage. Requires ExtensionAuth.
func (h *ExtensionHandler) Usage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return
	}
	usage, err := h.ledger.Status(r.Context(), identity.UserID, identity.Plan)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usageEnvelope{Status: statusSuccess, Usage: toUsageResponse(usage)})
}

type extensionGenerateRequest struct {
	Value string `json:"value" validate:"required"`
	Token string `json:"token"`
}

// Generate handles POST /api/extension/generate. The token may be in the body or the Bearer header.
func (h *ExtensionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req extensionGenerateRequest
	decodeErr := decodeJSON(w, r, &req)
	token := req.Token
	if token == "" {
		token = middleware.BearerToken(r)
	}
	identity, ok := h.auth.Authenticate(w, r, token)
	if !ok {
		return
	}
	if decodeErr != nil {
		writeDomainErr(w, h.log, r, decodeErr)
		return
	}
	res, err := h.generate.Execute(r.Context(), generation.CreateGenerationInput{
		Identity: *identity,
		Value:    req.Value,
	})
	writeGeneration(w, h.log, r, *identity, res, err)
}

type bookmarkRequest struct {
	URL    string     `json:"url"`
	Title  string     `json:"title"`
	Action string     `json:"action"`
	ID     *uuid.UUID `json:"id"`
}

type bookmarkEnvelope struct {
	Status   string            `json:"status"`
	Bookmark *bookmarkResponse `json:"bookmark,omitempty"`
	Deleted  bool              `json:"deleted,omitempty"`
}

// SaveBookmark handles POST /api/extension/bookmark. Requires ExtensionAuth.
func (h *ExtensionHandler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return
	}
	var req bookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	action, err := bookmark.ParseAction(req.Action)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	res, err := h.saveBookmark.Execute(r.Context(), bookmark.SaveBookmarkInput{
		UserID: identity.UserID,
		Action: action,
		ID:     req.ID,
		URL:    req.URL,
		Title:  req.Title,
	})
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	out := bookmarkEnvelope{Status: statusSuccess, Deleted: res.Deleted}
	if res.Bookmark != nil {
		b := toBookmarkResponse(res.Bookmark)
		out.Bookmark = &b
	}
	writeJSON(w, http.StatusOK, out)
}

type bookmarksEnvelope struct {
	Status    string             `json:"status"`
	Bookmarks []bookmarkResponse `json:"bookmarks"`
}

// ListBookmarks handles GET /api/extension/bookmark. Requires ExtensionAuth.
func (h *ExtensionHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return
	}
	list, err := h.listBookmarks.Execute(r.Context(), identity.UserID)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	out := make([]bookmarkResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, bookmarksEnvelope{Status: statusSuccess, Bookmarks: out})
}
