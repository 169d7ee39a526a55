package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// Repository exposes persistence operations for the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
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

// Create inserts a new product, assigning an ID when missing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Status == "" {
		product.Status = enums.ProductStatusActive
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ListActive returns active listings ordered by name.
func (r *Repository) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", enums.ProductStatusActive).
		Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a product by ID. Missing rows report gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads a product with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Search returns active products whose name, description or category name
// matches the query, capped at limit.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.status = ?", enums.ProductStatusActive).
		Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
			pattern, pattern, pattern,
		).
		Order("products.name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory returns active products belonging to the category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ? AND category_id = ?", enums.ProductStatusActive, categoryID).
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySeller returns all products owned by the seller.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DecrementStock reduces stock for a product, guarding against going
// negative. Returns gorm.ErrRecordNotFound when the guard rejects the update.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
