package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/api/middleware"
	"github.com/aivanahq/aivana-backend/api/responses"
	"github.com/aivanahq/aivana-backend/api/validators"
	productsvc "github.com/aivanahq/aivana-backend/internal/products"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

const browseLimit = 50

// ListProducts serves the public catalog with optional search and category
// filters.
func ListProducts(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "product service unavailable"))
			return
		}

		query := r.URL.Query()
		if search := strings.TrimSpace(query.Get("search")); search != "" {
			rows, err := svc.Search(r.Context(), search)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)
			return
		}

		if category := strings.TrimSpace(query.Get("category")); category != "" {
			resolved, rows, err := svc.ByCategory(r.Context(), category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{
				"category": resolved.Name,
				"products": rows,
			})
			return
		}

		rows, err := svc.List(r.Context(), browseLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetProduct serves a single product by ID.
func GetProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid product id"))
			return
		}

		row, err := svc.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

type createProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Price         string  `json:"price" validate:"required"`
	Currency      string  `json:"currency"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	ImageURL      string  `json:"image_url"`
}

func (req createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return productsvc.CreateProductInput{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid price")
	}
	if price.IsNegative() {
		return productsvc.CreateProductInput{}, apperrors.New(apperrors.CodeValidation, "price cannot be negative")
	}

	input := productsvc.CreateProductInput{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         price,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return productsvc.CreateProductInput{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &id
	}
	return input, nil
}

// CreateProduct inserts a listing owned by the authenticated seller.
func CreateProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), sellerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Price         *string `json:"price,omitempty"`
	Currency      *string `json:"currency,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	ImageURL      *string `json:"image_url,omitempty"`
	Status        *string `json:"status,omitempty"`
}

func (req updateProductRequest) toInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Currency:      req.Currency,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		Status:        req.Status,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*req.Price))
		if err != nil {
			return productsvc.UpdateProductInput{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid price")
		}
		if price.IsNegative() {
			return productsvc.UpdateProductInput{}, apperrors.New(apperrors.CodeValidation, "price cannot be negative")
		}
		input.Price = &price
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return productsvc.UpdateProductInput{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &id
	}
	return input, nil
}

// UpdateProduct applies partial changes to a listing the seller owns.
func UpdateProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), sellerID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// DeleteProduct removes a listing the seller owns.
func DeleteProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Delete(r.Context(), sellerID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListSellerProducts returns the authenticated seller's full catalog.
func ListSellerProducts(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func sellerFromContext(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, apperrors.New(apperrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
