package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/application/retention"
)

// WorkerConfig tunes the Asynq server.
type WorkerConfig struct {
	Concurrency int
	// PruneCron schedules usage pruning; empty disables it.
	PruneCron string
	// KeepUsageAfterExpiry is how long a closed ledger window is kept before pruning.
	KeepUsageAfterExpiry time.Duration
}

// Worker runs Asynq task handlers (code agent runs, usage pruning).
type Worker struct {
	srv       *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	run       *generation.RunGeneration
	pruner    ports.UsagePruner
	cfg       WorkerConfig
	log       zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. pruner may be nil. Call Run() to start.
func NewWorker(redisOpt asynq.RedisConnOpt, cfg WorkerConfig, run *generation.RunGeneration, pruner ports.UsagePruner, log zerolog.Logger) (*Worker, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, run: run, pruner: pruner, cfg: cfg, log: log}
	mux.HandleFunc(TypeRunGeneration, w.handleRunGeneration)

	if pruner != nil && cfg.PruneCron != "" {
		mux.HandleFunc(TypePruneUsage, w.handlePruneUsage)
		w.scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
		if _, err := w.scheduler.Register(cfg.PruneCron, asynq.NewTask(TypePruneUsage, nil, asynq.MaxRetry(0))); err != nil {
			return nil, fmt.Errorf("register prune schedule: %w", err)
		}
	}
	return w, nil
}

func (w *Worker) handleRunGeneration(ctx context.Context, t *asynq.Task) error {
	var p ports.RunGenerationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("code agent task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	res, err := w.run.Execute(ctx, p)
	if err != nil {
		w.log.Error().Err(err).Str("project_id", p.ProjectID).Msg("code agent run failed")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if res != nil {
		w.log.Info().
			Str("project_id", p.ProjectID).
			Str("message_type", string(res.Message.Type)).
			Bool("fragment", res.Fragment != nil).
			Msg("code agent run finished")
	}
	return nil
}

func (w *Worker) handlePruneUsage(ctx context.Context, t *asynq.Task) error {
	n, err := retention.RunPruneExpiredUsage(ctx, w.pruner, w.cfg.KeepUsageAfterExpiry, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("prune usage failed")
		return err
	}
	w.log.Info().Int64("rows", n).Msg("expired usage pruned")
	return nil
}

// Handler exposes the task mux for in-process testing.
func (w *Worker) Handler() asynq.Handler {
	return w.mux
}

// Run blocks until SIGINT/SIGTERM, then stops the server and the scheduler.
func (w *Worker) Run() error {
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer w.scheduler.Shutdown()
	}
	return w.srv.Run(w.mux)
}
