package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/internal/categories"
	"github.com/aivanahq/aivana-backend/pkg/db"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
)

const searchLimit = 5

// Service exposes catalog operations for controllers and agent tools.
type Service struct {
	repo       *Repository
	categories *categories.Repository
}

func NewService(repo *Repository, categoryRepo *categories.Repository) *Service {
	return &Service{repo: repo, categories: categoryRepo}
}

// Search returns the best matching active products for a free-text query.
func (s *Service) Search(ctx context.Context, query string) ([]ProductDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "search query is required")
	}
	rows, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "searching products")
	}
	return toDTOs(rows), nil
}

// List returns the active catalog for browsing.
func (s *Service) List(ctx context.Context, limit int) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing products")
	}
	return toDTOs(rows), nil
}

// Details returns the single most relevant product for the query. The query
// may also be a product ID.
func (s *Service) Details(ctx context.Context, query string) (*ProductDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "product query is required")
	}

	if id, err := uuid.Parse(query); err == nil {
		row, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, apperrors.New(apperrors.CodeNotFound, "no product found matching your description")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
		}
		dto := toDTO(row)
		return &dto, nil
	}

	rows, err := s.repo.Search(ctx, query, 1)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "searching products")
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "no product found matching your description")
	}
	dto := toDTO(&rows[0])
	return &dto, nil
}

// FindByID loads a single product.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	dto := toDTO(row)
	return &dto, nil
}

// Categories lists all known categories.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing categories")
	}
	return rows, nil
}

// ByCategory resolves a category by free-text query and lists its active
// products.
func (s *Service) ByCategory(ctx context.Context, categoryQuery string) (*models.Category, []ProductDTO, error) {
	categoryQuery = strings.TrimSpace(categoryQuery)
	if categoryQuery == "" {
		return nil, nil, apperrors.New(apperrors.CodeValidation, "category query is required")
	}

	category, err := s.categories.SearchByName(ctx, categoryQuery)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, apperrors.New(apperrors.CodeNotFound, "no category found matching "+categoryQuery)
		}
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "resolving category")
	}

	rows, err := s.repo.ListByCategory(ctx, category.ID, searchLimit)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing category products")
	}
	return category, toDTOs(rows), nil
}

// Create inserts a product owned by the seller.
func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if db.IsNotFound(err) {
				return nil, apperrors.New(apperrors.CodeValidation, "category does not exist")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "checking category")
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	product := &models.Product{
		SellerID:      sellerID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Currency:      currency,
		StockQuantity: input.StockQuantity,
		CategoryID:    input.CategoryID,
		ImageURL:      input.ImageURL,
	}
	if _, err := s.repo.Create(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating product")
	}

	created, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reloading product")
	}
	dto := toDTO(created)
	return &dto, nil
}

// Update applies partial changes to a product the seller owns.
func (s *Service) Update(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if row.SellerID != sellerID {
		return nil, apperrors.New(apperrors.CodeForbidden, "product belongs to another seller")
	}

	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if db.IsNotFound(err) {
				return nil, apperrors.New(apperrors.CodeValidation, "category does not exist")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "checking category")
		}
		row.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		row.Name = *input.Name
	}
	if input.Description != nil {
		row.Description = *input.Description
	}
	if input.Price != nil {
		row.Price = *input.Price
	}
	if input.Currency != nil {
		row.Currency = *input.Currency
	}
	if input.StockQuantity != nil {
		row.StockQuantity = *input.StockQuantity
	}
	if input.ImageURL != nil {
		row.ImageURL = *input.ImageURL
	}
	if input.Status != nil {
		status, err := enums.ParseProductStatus(*input.Status)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid status")
		}
		row.Status = status
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reloading product")
	}
	dto := toDTO(updated)
	return &dto, nil
}

// Delete removes a product the seller owns.
func (s *Service) Delete(ctx context.Context, sellerID, productID uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if row.SellerID != sellerID {
		return apperrors.New(apperrors.CodeForbidden, "product belongs to another seller")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting product")
	}
	return nil
}

// ListBySeller returns the seller's catalog, including inactive entries.
func (s *Service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing seller products")
	}
	return toDTOs(rows), nil
}
