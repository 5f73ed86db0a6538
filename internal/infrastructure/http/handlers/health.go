package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency the health check pings (pgxpool.Pool satisfies it directly).
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger (used for the go-redis client).
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves /health with database and optional Redis checks.
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler creates a health handler (redis optional).
func NewHealthHandler(db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allOK := true
	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down: " + err.Error()
			allOK = false
			return
		}
		checks[name] = "ok"
	}
	check("database", h.db)
	check("redis", h.redis)

	if !allOK {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "unhealthy",
			Checks:  checks,
			Message: "one or more checks failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: checks})
}
