package ports

//go:generate mockgen -destination=mocks/agent_mock.go -package=mocks . CodeAgent,Sandbox

import (
	"context"

	"github.com/uiscraper/backend/internal/domain"
)

// AgentResult is what a code-agent run produced. Summary is empty when the agent never finished the task.
type AgentResult struct {
	Summary  string
	Title    string
	Response string
	Files    map[string]string
}

// CodeAgent generates a UI component from a prompt and the project's prior messages.
type CodeAgent interface {
	Generate(ctx context.Context, prompt string, history []*domain.Message) (*AgentResult, error)
}

// Sandbox publishes generated files to a hosted preview environment and returns its URL.
type Sandbox interface {
	Publish(ctx context.Context, projectID string, files map[string]string) (string, error)
}
