package sandbox

import (
	"context"

	"github.com/uiscraper/backend/internal/application/ports"
)

// NoopPublisher is used when SANDBOX_URL is not set: fragments are stored without a live preview.
type NoopPublisher struct{}

// NewNoopPublisher returns a Sandbox that publishes nothing.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish implements ports.Sandbox and returns an empty preview URL.
func (p *NoopPublisher) Publish(ctx context.Context, projectID string, files map[string]string) (string, error) {
	return "", nil
}

var _ ports.Sandbox = (*NoopPublisher)(nil)
