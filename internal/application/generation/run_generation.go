package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

// FailureMessage is stored as the ERROR message content when a run produces nothing usable.
const FailureMessage = "Something went wrong. Please try again."

const defaultFragmentTitle = "Fragment"

// RunGenerationResult reports which terminal message was appended.
type RunGenerationResult struct {
	Message  *domain.Message
	Fragment *domain.Fragment
}

// RunGeneration executes one dispatched code-agent run and appends exactly one ASSISTANT message:
// RESULT with a fragment on success, ERROR without one otherwise.
type RunGeneration struct {
	projects ports.ProjectRepository
	messages ports.MessageRepository
	agent    ports.CodeAgent
	sandbox  ports.Sandbox
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunGeneration builds the use case.
func NewRunGeneration(projects ports.ProjectRepository, messages ports.MessageRepository, agent ports.CodeAgent, sandbox ports.Sandbox, log zerolog.Logger) *RunGeneration {
	return &RunGeneration{
		projects: projects,
		messages: messages,
		agent:    agent,
		sandbox:  sandbox,
		log:      log,
		now:      time.Now,
	}
}

// Execute returns an error only when the terminal message itself cannot be written or the project is gone.
func (uc *RunGeneration) Execute(ctx context.Context, payload ports.RunGenerationPayload) (*RunGenerationResult, error) {
	id, err := uuid.Parse(payload.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", payload.ProjectID, err)
	}
	projectID := domain.NewProjectID(id)
	project, err := uc.projects.GetByID(ctx, payload.UserID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		uc.log.Warn().Str("project_id", payload.ProjectID).Msg("generation for missing project dropped")
		return nil, nil
	}

	history, err := uc.messages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	history = withoutTrailingPrompt(history, payload.Value)

	result, err := uc.agent.Generate(ctx, payload.Value, history)
	if err != nil {
		uc.log.Error().Err(err).Str("project_id", payload.ProjectID).Msg("code agent failed")
		return uc.fail(ctx, projectID)
	}
	if strings.TrimSpace(result.Summary) == "" || len(result.Files) == 0 {
		uc.log.Warn().
			Str("project_id", payload.ProjectID).
			Bool("has_summary", strings.TrimSpace(result.Summary) != "").
			Int("files", len(result.Files)).
			Msg("code agent produced no usable result")
		return uc.fail(ctx, projectID)
	}

	sandboxURL, err := uc.sandbox.Publish(ctx, payload.ProjectID, result.Files)
	if err != nil {
		uc.log.Error().Err(err).Str("project_id", payload.ProjectID).Msg("sandbox publish failed")
		return uc.fail(ctx, projectID)
	}

	now := uc.now()
	content := strings.TrimSpace(result.Response)
	if content == "" {
		content = strings.TrimSpace(result.Summary)
	}
	title := strings.TrimSpace(result.Title)
	if title == "" {
		title = defaultFragmentTitle
	}
	message := &domain.Message{
		ID:        uuid.New(),
		ProjectID: projectID,
		Role:      domain.RoleAssistant,
		Type:      domain.MessageResult,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fragment := &domain.Fragment{
		ID:         uuid.New(),
		MessageID:  message.ID,
		Title:      title,
		SandboxURL: sandboxURL,
		Files:      result.Files,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.messages.CreateWithFragment(ctx, message, fragment); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	message.Fragment = fragment
	if err := uc.projects.Touch(ctx, projectID); err != nil {
		uc.log.Warn().Err(err).Str("project_id", payload.ProjectID).Msg("touch project failed")
	}
	return &RunGenerationResult{Message: message, Fragment: fragment}, nil
}

func (uc *RunGeneration) fail(ctx context.Context, projectID domain.ProjectID) (*RunGenerationResult, error) {
	now := uc.now()
	message := &domain.Message{
		ID:        uuid.New(),
		ProjectID: projectID,
		Role:      domain.RoleAssistant,
		Type:      domain.MessageError,
		Content:   FailureMessage,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("save error message: %w", err)
	}
	return &RunGenerationResult{Message: message}, nil
}

// withoutTrailingPrompt drops the USER message that carried this run's prompt; the agent receives it separately.
func withoutTrailingPrompt(history []*domain.Message, prompt string) []*domain.Message {
	n := len(history)
	if n > 0 && history[n-1].Role == domain.RoleUser && strings.TrimSpace(history[n-1].Content) == strings.TrimSpace(prompt) {
		return history[:n-1]
	}
	return history
}
