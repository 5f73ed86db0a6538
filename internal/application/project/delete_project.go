package project

import (
	"context"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// DeleteProject removes a project with its messages and fragments.
type DeleteProject struct {
	projectRepo ports.ProjectRepository
}

// NewDeleteProject builds the use case.
func NewDeleteProject(projectRepo ports.ProjectRepository) *DeleteProject {
	return &DeleteProject{projectRepo: projectRepo}
}

// Execute deletes the project; ErrProjectNotFound when nothing owned by the caller matched.
func (uc *DeleteProject) Execute(ctx context.Context, userID string, projectID domain.ProjectID) error {
	deleted, err := uc.projectRepo.Delete(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !deleted {
		return domerrors.ErrProjectNotFound
	}
	return nil
}
