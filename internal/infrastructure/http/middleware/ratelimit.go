package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPRateLimiter returns middleware that limits by client IP (in-memory store).
// rateFormatted: "100-M", "1000-H", "50-S".
func NewIPRateLimiter(rateFormatted string) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(limitReached),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			writeErr(w, http.StatusInternalServerError, errCodeInternal, "internal error")
		}),
	)
	return mw.Handler, nil
}

func limitReached(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusTooManyRequests, errCodeTooManyRequests, "Too many requests")
}

// NewUserRateLimiter returns middleware that limits by the identity in context.
// Use after SessionAuth or ExtensionAuth.
func NewUserRateLimiter(rateFormatted string) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	return userLimitMiddleware(instance), nil
}

func userLimitMiddleware(instance *limiter.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx, err := instance.Increment(r.Context(), "user:"+identity.UserID, 1)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			if ctx.Reset > 0 {
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", ctx.Reset))
			}
			if ctx.Reached {
				limitReached(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
