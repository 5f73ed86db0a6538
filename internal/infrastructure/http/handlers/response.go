package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// writeErr sends JSON { "status": "error", "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	writeJSON(w, code, map[string]string{"status": statusError, "error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case http.StatusMethodNotAllowed:
		return ErrCodeMethodNotAllowed
	default:
		return ErrCodeInternal
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainErr maps an application error to the smallest safe status. Unexpected errors are logged
// and answered with a generic 500.
func writeDomainErr(w http.ResponseWriter, log zerolog.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, domerrors.ErrUnauthenticated):
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
	case errors.Is(err, domerrors.ErrTokenExpired):
		writeErr(w, http.StatusUnauthorized, ErrCodeTokenExpired, "Token expired")
	case errors.Is(err, domerrors.ErrTokenInvalidStructure):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid token")
	case errors.Is(err, domerrors.ErrRateLimited):
		writeErr(w, http.StatusTooManyRequests, ErrCodeRateLimited, "You have run out of credits")
	case errors.Is(err, domerrors.ErrValidation):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, domerrors.ErrProjectNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "Project not found")
	case errors.Is(err, domerrors.ErrFragmentNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "Fragment not found")
	case errors.Is(err, domerrors.ErrBookmarkNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "Bookmark not found")
	case errors.Is(err, domerrors.ErrNoComponent):
		writeErr(w, http.StatusNotFound, ErrCodeNoComponent, "No component found")
	default:
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "Something went wrong")
	}
}
