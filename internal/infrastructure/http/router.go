package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/infrastructure/http/handlers"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	HealthHandler        *handlers.HealthHandler
	ExtensionAuthHandler *handlers.ExtensionAuthHandler
	ExtensionHandler     *handlers.ExtensionHandler
	ProjectsHandler      *handlers.ProjectsHandler
	FragmentsHandler     *handlers.FragmentsHandler
	RequireSession       func(http.Handler) http.Handler // web session JWT for /api/auth/extension, /api/projects etc.
	RequireExtension     func(http.Handler) http.Handler // extension Bearer token for /api/extension/*
	CORS                 func(http.Handler) http.Handler
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	UserRateLimit        func(http.Handler) http.Handler
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	} else {
		r.Use(middleware.CORS(nil, nil, nil))
	}
	r.Use(chimid.AllowContentType("application/json"))
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	userLimit := cfg.UserRateLimit
	if userLimit == nil {
		userLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api", func(r chi.Router) {
		if h := cfg.ExtensionAuthHandler; h != nil {
			// Token in body
			r.Post("/auth/verify-extension-token", h.Verify)
			r.With(cfg.RequireSession).Get("/auth/extension", h.Issue)
		}

		if h := cfg.ExtensionHandler; h != nil {
			r.Route("/extension", func(r chi.Router) {
				// Token in body or Bearer header; the handler authenticates.
				r.Post("/generate", h.Generate)
				r.Group(func(r chi.Router) {
					r.Use(cfg.RequireExtension)
					r.Use(userLimit)
					r.Get("/usage", h.Usage)
					r.Get("/bookmark", h.ListBookmarks)
					r.Post("/bookmark", h.SaveBookmark)
				})
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireSession)
			r.Use(userLimit)
			if h := cfg.ProjectsHandler; h != nil {
				r.Get("/usage", h.Usage)
				r.Route("/projects", func(r chi.Router) {
					r.Get("/", h.List)
					r.Post("/", h.Create)
					r.Get("/{id}", h.Get)
					r.Patch("/{id}", h.Rename)
					r.Delete("/{id}", h.Delete)
					r.Get("/{id}/messages", h.Messages)
					r.Post("/{id}/messages", h.CreateMessage)
				})
			}
			if h := cfg.FragmentsHandler; h != nil {
				r.Get("/fragments/{id}/tree", h.Tree)
				r.Get("/fragments/{id}/component", h.Component)
			}
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
