package ports

//go:generate mockgen -destination=mocks/queue_mock.go -package=mocks . TaskEnqueuer

import "context"

// RunGenerationPayload is the body of the code-agent run task.
type RunGenerationPayload struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Value     string `json:"value"`
}

// TaskEnqueuer enqueues async tasks.
type TaskEnqueuer interface {
	EnqueueRunGeneration(ctx context.Context, payload RunGenerationPayload) error
}
