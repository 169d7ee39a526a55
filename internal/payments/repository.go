package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
)

// Repository persists settlement records.
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

// CreateBatch inserts one settlement row per purchased line.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ListBySession returns settlement rows for a cart session, oldest first.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns the latest settlement rows, capped at limit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
