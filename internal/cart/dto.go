package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// ItemDTO is one cart line with its product snapshot.
type ItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Currency  string    `json:"currency"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"line_total"`
}

// CartDTO is the full cart view returned to API clients and the agent.
type CartDTO struct {
	SessionID       string                  `json:"session_id"`
	Status          enums.CartSessionStatus `json:"status"`
	BuyerName       string                  `json:"buyer_name,omitempty"`
	ShippingAddress string                  `json:"shipping_address,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Items           []ItemDTO               `json:"items"`
	Total           string                  `json:"total"`
	Currency        string                  `json:"currency"`
}

func buildCartDTO(session *models.CartSession, items []models.CartItem) CartDTO {
	dto := CartDTO{
		SessionID: session.SessionID,
		Status:    session.Status,
		Items:     make([]ItemDTO, 0, len(items)),
		Currency:  "USD",
	}
	if session.BuyerName != nil {
		dto.BuyerName = *session.BuyerName
	}
	if session.ShippingAddress != nil {
		dto.ShippingAddress = *session.ShippingAddress
	}
	if session.Notes != nil {
		dto.Notes = *session.Notes
	}

	total := decimal.Zero
	for i := range items {
		item := &items[i]
		line := ItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			line.Name = item.Product.Name
			line.Price = item.Product.Price.StringFixed(2)
			line.Currency = item.Product.Currency
			line.LineTotal = lineTotal.StringFixed(2)
			total = total.Add(lineTotal)
			if item.Product.Currency != "" {
				dto.Currency = item.Product.Currency
			}
		}
		dto.Items = append(dto.Items, line)
	}
	dto.Total = total.StringFixed(2)
	return dto
}

// UpdateSessionInput carries optional buyer details for a session. Nil fields
// are left untouched.
type UpdateSessionInput struct {
	BuyerName       *string
	ShippingAddress *string
	Notes           *string
}
