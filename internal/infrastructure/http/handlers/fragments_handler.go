package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/explorer"
)

// FragmentsHandler serves the explorer tree and copy-component views. Requires SessionAuth.
type FragmentsHandler struct {
	explorer *explorer.FragmentExplorer
	log      zerolog.Logger
}

func NewFragmentsHandler(fe *explorer.FragmentExplorer, log zerolog.Logger) *FragmentsHandler {
	return &FragmentsHandler{explorer: fe, log: log}
}

// Tree handles GET /api/fragments/{id}/tree.
func (h *FragmentsHandler) Tree(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := fragmentIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.explorer.Tree(r.Context(), identity.UserID, id)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Status:     statusSuccess,
		FragmentID: res.Fragment.ID.String(),
		Title:      res.Fragment.Title,
		Tree:       res.Tree,
	})
}

type componentResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	Code   string `json:"code"`
}

// Component handles GET /api/fragments/{id}/component.
func (h *FragmentsHandler) Component(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := fragmentIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.explorer.Component(r.Context(), identity.UserID, id)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, componentResponse{Status: statusSuccess, Path: res.Path, Name: res.Name, Code: res.Code})
}

func fragmentIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "Fragment not found")
		return uuid.Nil, false
	}
	return id, true
}
