package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/uiscraper/backend/internal/application/credits"
	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/config"
	"github.com/uiscraper/backend/internal/infrastructure/agent"
	"github.com/uiscraper/backend/internal/infrastructure/persistence/postgres"
	"github.com/uiscraper/backend/internal/infrastructure/sandbox"
)

var errRedisRequired = errors.New("REDIS_URL is required: generation runs on the asynq queue")

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// openRedis returns nil when REDIS_URL is unset.
func openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis ping failed")
	}
	return client, nil
}

// asynqOpt fails when REDIS_URL is unset. Generation prompts are only answered by the worker.
func asynqOpt(cfg *config.Config) (asynq.RedisConnOpt, error) {
	if cfg.Redis.URL == "" {
		return nil, errRedisRequired
	}
	opt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL for asynq: %w", err)
	}
	return opt, nil
}

// creditStore picks the limiter.Store backing every ledger in the process. All ledgers must share it.
func creditStore(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (limiter.Store, error) {
	switch cfg.Credits.Store {
	case config.CreditsStoreRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("credits store redis requires REDIS_URL")
		}
		return limiterredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "credits"})
	case config.CreditsStoreMemory:
		return limitermemory.NewStoreWithOptions(limiter.StoreOptions{Prefix: "credits", CleanUpInterval: limiter.DefaultCleanUpInterval}), nil
	default:
		return postgres.NewUsageStore(pool, "credits"), nil
	}
}

func ledgers(cfg *config.Config, store limiter.Store) (web, ext *credits.Ledger) {
	web = credits.NewLedger(store, credits.Allotment{Free: cfg.Credits.FreePointsWeb, Pro: cfg.Credits.ProPoints}, cfg.Credits.Window)
	ext = credits.NewLedger(store, credits.Allotment{Free: cfg.Credits.FreePointsExtension, Pro: cfg.Credits.ProPoints}, cfg.Credits.Window)
	return web, ext
}

func newCodeAgent(cfg *config.Config, log zerolog.Logger) ports.CodeAgent {
	return agent.NewOpenAIAgent(agent.Config{
		APIKey:        cfg.Agent.APIKey,
		BaseURL:       cfg.Agent.BaseURL,
		Model:         cfg.Agent.Model,
		MaxTokens:     cfg.Agent.MaxTokens,
		Temperature:   cfg.Agent.Temperature,
		MaxIterations: cfg.Agent.MaxIterations,
	}, log)
}

func newSandbox(cfg *config.Config, log zerolog.Logger) ports.Sandbox {
	if cfg.Sandbox.URL == "" {
		log.Warn().Msg("SANDBOX_URL not set; fragments will have no preview url")
		return sandbox.NewNoopPublisher()
	}
	opts := []sandbox.HTTPPublisherOption{sandbox.WithIdleTimeout(cfg.Sandbox.IdleTimeout)}
	if cfg.Sandbox.Token != "" {
		opts = append(opts, sandbox.WithHeader("Authorization", "Bearer "+cfg.Sandbox.Token))
	}
	return sandbox.NewHTTPPublisher(cfg.Sandbox.URL, opts...)
}
