package project

import (
	"context"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListProjectsInput pages through a user's projects, most recently updated first.
type ListProjectsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListProjects lists the caller's projects.
type ListProjects struct {
	projectRepo ports.ProjectRepository
}

// NewListProjects builds the use case.
func NewListProjects(projectRepo ports.ProjectRepository) *ListProjects {
	return &ListProjects{projectRepo: projectRepo}
}

// Execute clamps the page size and returns the page.
func (uc *ListProjects) Execute(ctx context.Context, input ListProjectsInput) ([]*domain.Project, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}
	return uc.projectRepo.List(ctx, input.UserID, limit, offset)
}

// GetProject loads one project owned by the caller.
type GetProject struct {
	projectRepo ports.ProjectRepository
}

// NewGetProject builds the use case.
func NewGetProject(projectRepo ports.ProjectRepository) *GetProject {
	return &GetProject{projectRepo: projectRepo}
}

// Execute returns ErrProjectNotFound for missing and foreign projects alike.
func (uc *GetProject) Execute(ctx context.Context, userID string, projectID domain.ProjectID) (*domain.Project, error) {
	project, err := uc.projectRepo.GetByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	return project, nil
}

// ListMessages returns a project's conversation, oldest first, with fragments attached.
type ListMessages struct {
	projectRepo ports.ProjectRepository
	messageRepo ports.MessageRepository
}

// NewListMessages builds the use case.
func NewListMessages(projectRepo ports.ProjectRepository, messageRepo ports.MessageRepository) *ListMessages {
	return &ListMessages{projectRepo: projectRepo, messageRepo: messageRepo}
}

// Execute checks ownership before reading the log.
func (uc *ListMessages) Execute(ctx context.Context, userID string, projectID domain.ProjectID) ([]*domain.Message, error) {
	project, err := uc.projectRepo.GetByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	return uc.messageRepo.ListByProject(ctx, projectID)
}
