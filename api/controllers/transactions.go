package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aivanahq/aivana-backend/api/responses"
	paymentsvc "github.com/aivanahq/aivana-backend/internal/payments"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

// GetChainTransaction looks a transaction up on the ledger without settling
// anything.
func GetChainTransaction(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "payment service unavailable"))
			return
		}

		hash := strings.TrimSpace(chi.URLParam(r, "hash"))
		details, err := svc.Lookup(r.Context(), hash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// ListTransactions returns settlement rows, filtered to one session when the
// sessionId query parameter is present.
func ListTransactions(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "payment service unavailable"))
			return
		}

		query := r.URL.Query()
		if sessionID := strings.TrimSpace(query.Get("sessionId")); sessionID != "" {
			rows, err := svc.History(r.Context(), sessionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)
			return
		}

		limit := 0
		if raw := query.Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeValidation, "limit must be a non-negative integer"))
				return
			}
			limit = parsed
		}

		rows, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
