package middleware

import (
	"net/http"
	"strings"
)

// CORS returns a middleware that mirrors the request Origin with credentials allowed and answers
// OPTIONS preflight with 204. When allowedOrigins is empty every origin is mirrored; otherwise only
// listed origins are.
func CORS(allowedOrigins, allowedMethods, allowedHeaders []string) func(next http.Handler) http.Handler {
	originsSet := make(map[string]bool)
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			originsSet[o] = true
		}
	}
	methods := strings.Join(allowedMethods, ", ")
	headers := strings.Join(allowedHeaders, ", ")
	if methods == "" {
		methods = "GET, POST, PATCH, DELETE, OPTIONS"
	}
	if headers == "" {
		headers = "Authorization, Content-Type, X-Requested-With"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (len(originsSet) == 0 || originsSet[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			w.Header().Set("Access-Control-Max-Age", "86400")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
