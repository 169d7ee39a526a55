package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// Repository exposes persistence operations for cart sessions and items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindBySessionID loads a session with its items and their products.
func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (*models.CartSession, error) {
	var row models.CartSession
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&row, "session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByTransactionID loads the session a chain transaction hash is bound to,
// or nil when no session claimed it yet.
func (r *Repository) FindByTransactionID(ctx context.Context, transactionID string) (*models.CartSession, error) {
	var row models.CartSession
	err := r.db.WithContext(ctx).First(&row, "transaction_id = ?", transactionID).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetOrCreate returns the session for sessionID, creating a pending one when
// it does not exist yet.
func (r *Repository) GetOrCreate(ctx context.Context, sessionID string) (*models.CartSession, error) {
	session, err := r.FindBySessionID(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	created := &models.CartSession{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    enums.CartSessionPending,
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// A concurrent request may have created the session first.
		if db.IsUniqueViolation(err) {
			return r.FindBySessionID(ctx, sessionID)
		}
		return nil, err
	}
	return created, nil
}

// Save persists the provided session.
func (r *Repository) Save(ctx context.Context, session *models.CartSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// UpsertItem adds quantity to the session's line for the product, creating
// the line when absent.
func (r *Repository) UpsertItem(ctx context.Context, cartSessionID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_session_id = ? AND product_id = ?", cartSessionID, productID).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := r.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	case db.IsNotFound(err):
		item = models.CartItem{
			ID:            uuid.New(),
			CartSessionID: cartSessionID,
			ProductID:     productID,
			Quantity:      quantity,
		}
		if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	default:
		return nil, err
	}
}

// RemoveItem deletes the line for the product. Removing an absent line is
// not an error.
func (r *Repository) RemoveItem(ctx context.Context, cartSessionID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_session_id = ? AND product_id = ?", cartSessionID, productID).
		Delete(&models.CartItem{}).Error
}

// ListItems returns the session's lines with product details, oldest first.
func (r *Repository) ListItems(ctx context.Context, cartSessionID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("cart_session_id = ?", cartSessionID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClearItems removes every line from the session.
func (r *Repository) ClearItems(ctx context.Context, cartSessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_session_id = ?", cartSessionID).
		Delete(&models.CartItem{}).Error
}
