package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/api/responses"
	"github.com/aivanahq/aivana-backend/api/validators"
	categorysvc "github.com/aivanahq/aivana-backend/internal/categories"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

// ListCategories serves the public category list.
func ListCategories(svc *categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "category service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetCategory serves a single category by ID.
func GetCategory(svc *categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := categoryIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// CreateCategory inserts a new category.
func CreateCategory(svc *categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "category service unavailable"))
			return
		}

		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), categorysvc.CategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// UpdateCategory applies changes to an existing category.
func UpdateCategory(svc *categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := categoryIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), id, categorysvc.CategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// DeleteCategory removes a category.
func DeleteCategory(svc *categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := categoryIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func categoryIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "categoryId")))
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid category id")
	}
	return id, nil
}
