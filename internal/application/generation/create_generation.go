package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// MaxPromptLength bounds the prompt accepted from either surface.
const MaxPromptLength = 10000

// CreateGenerationInput is a prompt from an authenticated caller. A nil ProjectID starts a new project.
type CreateGenerationInput struct {
	Identity  domain.Identity
	Value     string
	ProjectID *domain.ProjectID
}

// CreateGenerationResult is returned before any generation work runs.
type CreateGenerationResult struct {
	Project *domain.Project
	Message *domain.Message
	Usage   *domain.Usage
}

// CreateGeneration validates a prompt, consumes a credit, records the USER message, and dispatches
// the code-agent run. Each call creates new records; there is no deduplication.
type CreateGeneration struct {
	projects ports.ProjectRepository
	messages ports.MessageRepository
	ledger   ports.CreditLedger
	enqueuer ports.TaskEnqueuer
	now      func() time.Time
	slug     func() string
}

// NewCreateGeneration builds the use case. The ledger decides the allotment for this call site.
func NewCreateGeneration(projects ports.ProjectRepository, messages ports.MessageRepository, ledger ports.CreditLedger, enqueuer ports.TaskEnqueuer) *CreateGeneration {
	return &CreateGeneration{
		projects: projects,
		messages: messages,
		ledger:   ledger,
		enqueuer: enqueuer,
		now:      time.Now,
		slug:     randomSlug,
	}
}

// Execute runs the orchestration. ErrRateLimited is returned with the usage attached to the result.
func (uc *CreateGeneration) Execute(ctx context.Context, input CreateGenerationInput) (*CreateGenerationResult, error) {
	value := strings.TrimSpace(input.Value)
	if value == "" || len(value) > MaxPromptLength {
		return nil, fmt.Errorf("%w: prompt must be between 1 and %d characters", domerrors.ErrValidation, MaxPromptLength)
	}
	if input.Identity.UserID == "" {
		return nil, domerrors.ErrUnauthenticated
	}

	var project *domain.Project
	if input.ProjectID != nil {
		p, err := uc.projects.GetByID(ctx, input.Identity.UserID, *input.ProjectID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domerrors.ErrProjectNotFound
		}
		project = p
	}

	usage, err := uc.ledger.Consume(ctx, input.Identity.UserID, input.Identity.Plan)
	if err != nil {
		if errors.Is(err, domerrors.ErrRateLimited) {
			return &CreateGenerationResult{Usage: usage}, err
		}
		return nil, err
	}

	now := uc.now()
	if project == nil {
		project = &domain.Project{
			ID:        domain.NewProjectID(uuid.New()),
			UserID:    input.Identity.UserID,
			Name:      uc.slug(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.projects.Create(ctx, project); err != nil {
			return nil, fmt.Errorf("create project: %w", err)
		}
	} else if err := uc.projects.Touch(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("touch project: %w", err)
	}

	message := &domain.Message{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Role:      domain.RoleUser,
		Type:      domain.MessageResult,
		Content:   value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if err := uc.enqueuer.EnqueueRunGeneration(ctx, ports.RunGenerationPayload{
		ProjectID: project.ID.String(),
		UserID:    input.Identity.UserID,
		Value:     value,
	}); err != nil {
		return nil, fmt.Errorf("dispatch generation: %w", err)
	}

	return &CreateGenerationResult{Project: project, Message: message, Usage: usage}, nil
}
