package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/api/middleware"
	"github.com/aivanahq/aivana-backend/api/responses"
	"github.com/aivanahq/aivana-backend/api/validators"
	authsvc "github.com/aivanahq/aivana-backend/internal/auth"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty"`
}

// Register creates an account and returns its first token.
func Register(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Username: strings.TrimSpace(payload.Username),
			Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
			Password: payload.Password,
			Role:     enums.UserRole(strings.ToLower(strings.TrimSpace(payload.Role))),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a token.
func Login(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			Username: strings.TrimSpace(payload.Username),
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Profile returns the authenticated account.
func Profile(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeUnauthorized, "user context missing"))
			return
		}

		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid user id"))
			return
		}

		profile, err := svc.Profile(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
