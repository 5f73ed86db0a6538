package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
)

type generationResponse struct {
	Status    string           `json:"status"`
	ProjectID string           `json:"projectId"`
	MessageID string           `json:"messageId"`
	Message   string           `json:"message"`
	Usage     *usageResponse   `json:"usage,omitempty"`
	Project   *projectResponse `json:"project,omitempty"`
}

type rateLimitedResponse struct {
	Status string         `json:"status"`
	Error  string         `json:"error"`
	Code   string         `json:"code"`
	Usage  *usageResponse `json:"usage,omitempty"`
}

// writeGeneration answers a CreateGeneration call and records the credit outcome.
func writeGeneration(w http.ResponseWriter, log zerolog.Logger, r *http.Request, identity domain.Identity, res *generation.CreateGenerationResult, err error) {
	plan := string(identity.Plan)
	switch {
	case err == nil:
		middleware.RecordCreditConsumption(plan, "granted")
		AuditLog(log, r, EventGenerationRequested, identity.UserID, true, "")
		project := toProjectResponse(res.Project)
		writeJSON(w, http.StatusOK, generationResponse{
			Status:    statusSuccess,
			ProjectID: res.Project.ID.String(),
			MessageID: res.Message.ID.String(),
			Message:   "Generation started",
			Usage:     toUsageResponse(res.Usage),
			Project:   &project,
		})
	case errors.Is(err, domerrors.ErrRateLimited):
		middleware.RecordCreditConsumption(plan, "rate_limited")
		AuditLog(log, r, EventGenerationRequested, identity.UserID, false, err.Error())
		var usage *domain.Usage
		if res != nil {
			usage = res.Usage
		}
		writeJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
			Status: statusError,
			Error:  "You have run out of credits",
			Code:   ErrCodeRateLimited,
			Usage:  toUsageResponse(usage),
		})
	default:
		if !errors.Is(err, domerrors.ErrValidation) && !errors.Is(err, domerrors.ErrProjectNotFound) {
			middleware.RecordCreditConsumption(plan, "error")
		}
		writeDomainErr(w, log, r, err)
	}
}
