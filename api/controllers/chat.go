package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aivanahq/aivana-backend/api/responses"
	"github.com/aivanahq/aivana-backend/api/validators"
	agentsvc "github.com/aivanahq/aivana-backend/internal/agent"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

type chatRequest struct {
	Message string `json:"message" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

// Chat feeds one user utterance through the agent and returns its reply.
func Chat(svc *agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "agent service unavailable"))
			return
		}

		var payload chatRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reply := svc.ProcessMessage(r.Context(), strings.TrimSpace(payload.UserID), payload.Message)
		responses.WriteSuccess(w, reply)
	}
}

// ConversationHistory returns the stored turns for one user, oldest first.
func ConversationHistory(svc *agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "agent service unavailable"))
			return
		}

		userID := strings.TrimSpace(chi.URLParam(r, "userId"))
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeValidation, "userId is required"))
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeValidation, "limit must be a non-negative integer"))
				return
			}
			limit = parsed
		}

		turns, err := svc.GetConversationHistory(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, turns)
	}
}
