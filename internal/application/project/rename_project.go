package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// MaxNameLength bounds a user-chosen project name.
const MaxNameLength = 120

// RenameProjectInput is the project to rename and its new name.
type RenameProjectInput struct {
	UserID    string
	ProjectID domain.ProjectID
	Name      string
}

// RenameProject changes a project's display name.
type RenameProject struct {
	projectRepo ports.ProjectRepository
}

// NewRenameProject builds the use case.
func NewRenameProject(projectRepo ports.ProjectRepository) *RenameProject {
	return &RenameProject{projectRepo: projectRepo}
}

// Execute renames the project and returns it as stored.
func (uc *RenameProject) Execute(ctx context.Context, input RenameProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: name must be between 1 and %d characters", domerrors.ErrValidation, MaxNameLength)
	}
	project, err := uc.projectRepo.GetByID(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if err := uc.projectRepo.Rename(ctx, input.UserID, input.ProjectID, name); err != nil {
		return nil, err
	}
	return uc.projectRepo.GetByID(ctx, input.UserID, input.ProjectID)
}
