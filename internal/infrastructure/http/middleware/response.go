package middleware

import (
	"encoding/json"
	"net/http"
)

// Request throttling answers with errCodeTooManyRequests; "rate_limited" is reserved for
// exhausted credits.
const (
	errCodeUnauthorized    = "unauthorized"
	errCodeInvalidToken    = "invalid_token"
	errCodeTokenExpired    = "token_expired"
	errCodeTooManyRequests = "too_many_requests"
	errCodeInternal        = "internal_error"
)

// writeErr sends JSON { "status": "error", "error": message, "code": errCode }.
func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": message, "code": errCode})
}
