package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/config"
	"github.com/uiscraper/backend/internal/infrastructure/persistence/postgres"
	"github.com/uiscraper/backend/internal/infrastructure/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the generation worker (code agent runs, usage pruning)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		opt, err := asynqOpt(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		projectRepo := postgres.NewProjectRepository(pool)
		messageRepo := postgres.NewMessageRepository(pool)
		run := generation.NewRunGeneration(projectRepo, messageRepo, newCodeAgent(cfg, log), newSandbox(cfg, log), log)

		// Only the postgres ledger keeps rows that outlive their window.
		var pruner ports.UsagePruner
		if cfg.Credits.Store == config.CreditsStorePostgres {
			pruner = postgres.NewUsageStore(pool, "credits")
		}

		w, err := queue.NewWorker(opt, queue.WorkerConfig{
			Concurrency:          cfg.Worker.Concurrency,
			PruneCron:            cfg.Worker.PruneCron,
			KeepUsageAfterExpiry: cfg.Worker.KeepUsageAfterExpiry,
		}, run, pruner, log)
		if err != nil {
			return err
		}

		log.Info().Int("concurrency", cfg.Worker.Concurrency).Msg("worker starting")
		if err := w.Run(); err != nil {
			return err
		}
		log.Info().Msg("worker stopped")
		return nil
	},
}
