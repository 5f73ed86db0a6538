package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/application/project"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
)

// ProjectsHandler serves the web app's project, message, and usage endpoints. Requires SessionAuth.
type ProjectsHandler struct {
	ledger       ports.CreditLedger
	generate     *generation.CreateGeneration
	listProjects *project.ListProjects
	getProject   *project.GetProject
	rename       *project.RenameProject
	deleteProj   *project.DeleteProject
	listMessages *project.ListMessages
	log          zerolog.Logger
}

// ProjectsHandlerDeps groups the use cases behind ProjectsHandler.
type ProjectsHandlerDeps struct {
	Ledger       ports.CreditLedger
	Generate     *generation.CreateGeneration
	ListProjects *project.ListProjects
	GetProject   *project.GetProject
	Rename       *project.RenameProject
	Delete       *project.DeleteProject
	ListMessages *project.ListMessages
}

// NewProjectsHandler builds the handler. Ledger and Generate must be sized with the web allotment.
func NewProjectsHandler(deps ProjectsHandlerDeps, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		ledger:       deps.Ledger,
		generate:     deps.Generate,
		listProjects: deps.ListProjects,
		getProject:   deps.GetProject,
		rename:       deps.Rename,
		deleteProj:   deps.Delete,
		listMessages: deps.ListMessages,
		log:          log,
	}
}

// Usage handles GET /api/usage.
func (h *ProjectsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	usage, err := h.ledger.Status(r.Context(), identity.UserID, identity.Plan)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usageEnvelope{Status: statusSuccess, Usage: toUsageResponse(usage)})
}

type projectsEnvelope struct {
	Status   string            `json:"status"`
	Projects []projectResponse `json:"projects"`
}

// List handles GET /api/projects?limit=&offset=.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	list, err := h.listProjects.Execute(r.Context(), project.ListProjectsInput{UserID: identity.UserID, Limit: limit, Offset: offset})
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, projectsEnvelope{Status: statusSuccess, Projects: out})
}

type promptRequest struct {
	Value string `json:"value" validate:"required"`
}

// Create handles POST /api/projects: starts a new project from the first prompt.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, nil)
}

// CreateMessage handles POST /api/projects/{id}/messages: a follow-up prompt on an existing project.
func (h *ProjectsHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	h.submit(w, r, &id)
}

func (h *ProjectsHandler) submit(w http.ResponseWriter, r *http.Request, projectID *domain.ProjectID) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	res, err := h.generate.Execute(r.Context(), generation.CreateGenerationInput{
		Identity:  *identity,
		Value:     req.Value,
		ProjectID: projectID,
	})
	writeGeneration(w, h.log, r, *identity, res, err)
}

type projectEnvelope struct {
	Status  string          `json:"status"`
	Project projectResponse `json:"project"`
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.getProject.Execute(r.Context(), identity.UserID, id)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectEnvelope{Status: statusSuccess, Project: toProjectResponse(p)})
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

// Rename handles PATCH /api/projects/{id}.
func (h *ProjectsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	p, err := h.rename.Execute(r.Context(), project.RenameProjectInput{UserID: identity.UserID, ProjectID: id, Name: req.Name})
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectEnvelope{Status: statusSuccess, Project: toProjectResponse(p)})
}

// Delete handles DELETE /api/projects/{id}. Messages and fragments go with it.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	if err := h.deleteProj.Execute(r.Context(), identity.UserID, id); err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": statusSuccess})
}

type messagesEnvelope struct {
	Status   string            `json:"status"`
	Messages []messageResponse `json:"messages"`
}

// Messages handles GET /api/projects/{id}/messages, oldest first.
func (h *ProjectsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	list, err := h.listMessages.Execute(r.Context(), identity.UserID, id)
	if err != nil {
		writeDomainErr(w, h.log, r, err)
		return
	}
	out := make([]messageResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, messagesEnvelope{Status: statusSuccess, Messages: out})
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return nil, false
	}
	return identity, true
}

// projectIDParam parses {id}; a malformed id is reported like a missing project.
func projectIDParam(w http.ResponseWriter, r *http.Request) (domain.ProjectID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, domerrors.ErrProjectNotFound.Error())
		return domain.ProjectID{}, false
	}
	return domain.NewProjectID(id), true
}
