package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/api/responses"
	"github.com/aivanahq/aivana-backend/api/validators"
	cartsvc "github.com/aivanahq/aivana-backend/internal/cart"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

// GetCart serves the cart for a session; unknown sessions read as empty.
func GetCart(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		view, err := svc.View(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addCartItemRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

// AddCartItem upserts a product into the session's cart.
func AddCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.Add(r.Context(), strings.TrimSpace(payload.SessionID), productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// RemoveCartItem drops a product from the session's cart. Removing an absent
// item succeeds and returns the unchanged cart.
func RemoveCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		productID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type updateCartSessionRequest struct {
	BuyerName       *string `json:"buyerName,omitempty"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// UpdateCartSession records buyer details ahead of checkout.
func UpdateCartSession(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))

		var payload updateCartSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateSession(r.Context(), sessionID, cartsvc.UpdateSessionInput{
			BuyerName:       payload.BuyerName,
			ShippingAddress: payload.ShippingAddress,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
