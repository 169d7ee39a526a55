package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
)

// Repository exposes persistence operations for product categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a category repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category, assigning an ID when missing.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// List returns all categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists changes to an existing category.
func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes a category by ID. Missing rows report gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchByName returns the first category whose name matches the query,
// case-insensitively and allowing partial matches.
func (r *Repository) SearchByName(ctx context.Context, query string) (*models.Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%").
		Order("name ASC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
