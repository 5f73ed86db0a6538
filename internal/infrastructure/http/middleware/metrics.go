package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uiscraper_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uiscraper_auth_attempts_total",
			Help: "Total auth attempts by mechanism and outcome",
		},
		[]string{"mechanism", "success"},
	)
	creditsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uiscraper_credits_consumed_total",
			Help: "Credit consumption attempts by plan and outcome",
		},
		[]string{"plan", "outcome"},
	)
)

// PrometheusMiddleware records request duration, labelled by route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		if path == "" {
			path = "/"
		}
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// RecordAuthAttempt records a token verification for Prometheus.
func RecordAuthAttempt(mechanism string, success bool) {
	authAttempts.WithLabelValues(mechanism, strconv.FormatBool(success)).Inc()
}

// RecordCreditConsumption records a ledger consume; outcome is "granted", "rate_limited" or "error".
func RecordCreditConsumption(plan, outcome string) {
	creditsConsumed.WithLabelValues(plan, outcome).Inc()
}
