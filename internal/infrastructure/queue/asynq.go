package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/ports"
)

const (
	TypeRunGeneration = "code-agent:run"
	TypePruneUsage    = "credits:prune"
)

// NewRunGenerationTask builds the code-agent task. Failures are recorded as ERROR messages by the
// handler, so the task is never retried.
func NewRunGenerationTask(payload ports.RunGenerationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRunGeneration, body, asynq.MaxRetry(0)), nil
}

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log}, nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueRunGeneration(ctx context.Context, payload ports.RunGenerationPayload) error {
	task, err := NewRunGenerationTask(payload)
	if err != nil {
		return fmt.Errorf("encode run generation task: %w", err)
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("project_id", payload.ProjectID).Msg("enqueue code agent run failed")
		return err
	}
	q.log.Debug().Str("task_id", info.ID).Str("project_id", payload.ProjectID).Msg("code agent run enqueued")
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
