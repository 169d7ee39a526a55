package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/internal/products"
	"github.com/aivanahq/aivana-backend/pkg/db"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
)

// Service exposes shopping cart operations for controllers and agent tools.
type Service struct {
	repo     *Repository
	products *products.Repository
}

func NewService(repo *Repository, productRepo *products.Repository) *Service {
	return &Service{repo: repo, products: productRepo}
}

// View returns the cart for the session. An unknown session yields an empty
// cart rather than an error.
func (s *Service) View(ctx context.Context, sessionID string) (*CartDTO, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}

	session, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			empty := CartDTO{SessionID: sessionID, Items: []ItemDTO{}, Total: "0.00", Currency: "USD"}
			return &empty, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart session")
	}

	items, err := s.repo.ListItems(ctx, session.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart items")
	}

	dto := buildCartDTO(session, items)
	return &dto, nil
}

// Add puts quantity units of the product into the session's cart, creating
// the session when needed. Quantity defaults to one.
func (s *Service) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if product.StockQuantity < quantity {
		return nil, apperrors.New(apperrors.CodeValidation, "not enough stock for "+product.Name)
	}

	session, err := s.repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating cart session")
	}

	if _, err := s.repo.UpsertItem(ctx, session.ID, productID, quantity); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "adding cart item")
	}

	return s.View(ctx, sessionID)
}

// Remove deletes the product's line from the cart. Removing something that
// is not in the cart succeeds quietly.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}

	session, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			empty := CartDTO{SessionID: sessionID, Items: []ItemDTO{}, Total: "0.00", Currency: "USD"}
			return &empty, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart session")
	}

	if err := s.repo.RemoveItem(ctx, session.ID, productID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "removing cart item")
	}

	return s.View(ctx, sessionID)
}

// UpdateSession records buyer details on the session, creating it when
// needed.
func (s *Service) UpdateSession(ctx context.Context, sessionID string, input UpdateSessionInput) (*CartDTO, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}

	session, err := s.repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating cart session")
	}

	if input.BuyerName != nil {
		session.BuyerName = input.BuyerName
	}
	if input.ShippingAddress != nil {
		session.ShippingAddress = input.ShippingAddress
	}
	if input.Notes != nil {
		session.Notes = input.Notes
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving cart session")
	}

	return s.View(ctx, sessionID)
}

func requireSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperrors.New(apperrors.CodeValidation, "session id is required")
	}
	return nil
}
