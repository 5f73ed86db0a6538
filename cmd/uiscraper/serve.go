package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uiscraper/backend/internal/application/bookmark"
	"github.com/uiscraper/backend/internal/application/explorer"
	"github.com/uiscraper/backend/internal/application/extauth"
	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/application/project"
	infraauth "github.com/uiscraper/backend/internal/infrastructure/auth"
	httprouter "github.com/uiscraper/backend/internal/infrastructure/http"
	"github.com/uiscraper/backend/internal/infrastructure/http/handlers"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
	"github.com/uiscraper/backend/internal/infrastructure/persistence/postgres"
	"github.com/uiscraper/backend/internal/infrastructure/queue"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		queueOpt, err := asynqOpt(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		redisClient, err := openRedis(ctx, cfg, log)
		if err != nil {
			return err
		}
		var redisPinger handlers.Pinger
		if redisClient != nil {
			defer redisClient.Close()
			redisPinger = handlers.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		}

		projectRepo := postgres.NewProjectRepository(pool)
		messageRepo := postgres.NewMessageRepository(pool)
		bookmarkRepo := postgres.NewBookmarkRepository(pool)
		planStore := postgres.NewPlanStore(pool)

		store, err := creditStore(cfg, pool, redisClient)
		if err != nil {
			return err
		}
		webLedger, extLedger := ledgers(cfg, store)

		enqueuer, err := queue.NewAsynqEnqueuer(queueOpt, log)
		if err != nil {
			return err
		}
		defer enqueuer.Close()

		pemBytes, err := cfg.LoadSessionPublicKey()
		if err != nil {
			return err
		}
		publicKey, err := infraauth.LoadRSAPublicKeyFromPEM(pemBytes)
		if err != nil {
			return err
		}
		sessionAuth := middleware.NewSessionAuth(infraauth.NewSessionVerifier(publicKey, cfg.Session.Issuer, cfg.Session.Audience))

		tokens := infraauth.NewExtensionTokens(cfg.Extension.TokenTTL)
		issueUC := extauth.NewIssueExtensionToken(tokens, planStore)
		verifyUC := extauth.NewVerifyExtensionToken(tokens, planStore)
		extAuth := middleware.NewExtensionAuth(verifyUC, log)

		ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
		if err != nil {
			return err
		}
		userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser)
		if err != nil {
			return err
		}

		router := httprouter.NewRouter(httprouter.RouterConfig{
			HealthHandler:        handlers.NewHealthHandler(pool, redisPinger),
			ExtensionAuthHandler: handlers.NewExtensionAuthHandler(issueUC, verifyUC, log),
			ExtensionHandler: handlers.NewExtensionHandler(
				extAuth,
				extLedger,
				generation.NewCreateGeneration(projectRepo, messageRepo, extLedger, enqueuer),
				bookmark.NewSaveBookmark(bookmarkRepo),
				bookmark.NewListBookmarks(bookmarkRepo),
				log,
			),
			ProjectsHandler: handlers.NewProjectsHandler(handlers.ProjectsHandlerDeps{
				Ledger:       webLedger,
				Generate:     generation.NewCreateGeneration(projectRepo, messageRepo, webLedger, enqueuer),
				ListProjects: project.NewListProjects(projectRepo),
				GetProject:   project.NewGetProject(projectRepo),
				Rename:       project.NewRenameProject(projectRepo),
				Delete:       project.NewDeleteProject(projectRepo),
				ListMessages: project.NewListMessages(projectRepo, messageRepo),
			}, log),
			FragmentsHandler: handlers.NewFragmentsHandler(explorer.NewFragmentExplorer(messageRepo), log),
			RequireSession:   sessionAuth.Handler,
			RequireExtension: extAuth.Handler,
			CORS:             middleware.CORS(cfg.Server.AllowedOrigins, nil, nil),
			Log:              log,
			Secure:           middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment, cfg.Server.AllowedHosts)),
			IPRateLimit:      ipLimit,
			UserRateLimit:    userLimit,
			Metrics:          true,
		})

		srv := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Server.Port).Str("credits_store", cfg.Credits.Store).Msg("server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
		log.Info().Msg("server stopped")
		return nil
	},
}
