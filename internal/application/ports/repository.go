package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/uiscraper/backend/internal/domain"
)

// ProjectRepository defines persistence for projects (user-scoped).
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// GetByID returns nil, nil when the project does not exist or belongs to another user.
	GetByID(ctx context.Context, userID string, projectID domain.ProjectID) (*domain.Project, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.Project, error)
	Rename(ctx context.Context, userID string, projectID domain.ProjectID, name string) error
	// Touch bumps updated_at.
	Touch(ctx context.Context, projectID domain.ProjectID) error
	// Delete removes the project and cascades to its messages and fragments. Returns false if nothing matched.
	Delete(ctx context.Context, userID string, projectID domain.ProjectID) (bool, error)
}

// MessageRepository defines persistence for the append-only message log and fragments.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// CreateWithFragment writes the message and its fragment atomically.
	CreateWithFragment(ctx context.Context, message *domain.Message, fragment *domain.Fragment) error
	ListByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Message, error)
	// GetFragment returns nil, nil when the fragment does not exist or its project belongs to another user.
	GetFragment(ctx context.Context, userID string, fragmentID uuid.UUID) (*domain.Fragment, error)
}

// BookmarkRepository defines persistence for bookmarks, unique on (user, url).
type BookmarkRepository interface {
	Upsert(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error)
	UpdateTitle(ctx context.Context, userID string, id uuid.UUID, title string) (*domain.Bookmark, error)
	DeleteByID(ctx context.Context, userID string, id uuid.UUID) (bool, error)
	DeleteByURL(ctx context.Context, userID, url string) (bool, error)
	List(ctx context.Context, userID string) ([]*domain.Bookmark, error)
}

// PlanStore caches the last plan the identity provider reported for a user.
type PlanStore interface {
	SetPlan(ctx context.Context, userID string, plan domain.Plan) error
	// GetPlan returns PlanFree when nothing is recorded.
	GetPlan(ctx context.Context, userID string) (domain.Plan, error)
}
