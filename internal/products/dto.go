package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
)

// ProductDTO is the catalog view returned to API clients and to the agent.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         string    `json:"price"`
	Currency      string    `json:"currency"`
	StockQuantity int       `json:"stock_quantity"`
	Category      string    `json:"category,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
}

func toDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		Currency:      p.Currency,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	return dto
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Currency      string
	StockQuantity int
	CategoryID    *uuid.UUID
	ImageURL      string
}

// UpdateProductInput carries partial changes; nil fields stay untouched.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Currency      *string
	StockQuantity *int
	CategoryID    *uuid.UUID
	ImageURL      *string
	Status        *string
}
