package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Audit events for the extension auth bridge and credit consumption.
const (
	EventExtensionTokenIssued   = "extension_token.issued"
	EventExtensionTokenVerified = "extension_token.verified"
	EventGenerationRequested    = "generation.requested"
)

// AuditLog logs security-relevant events (user_id, IP, request id).
func AuditLog(log zerolog.Logger, r *http.Request, event, userID string, success bool, errMsg string) {
	ev := log.Info()
	if !success {
		ev = log.Warn()
	}
	ev.
		Str("event", event).
		Str("user_id", userID).
		Str("ip", getClientIP(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", success)
	if errMsg != "" {
		ev.Str("error", errMsg)
	}
	ev.Msg("audit")
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
