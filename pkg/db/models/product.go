package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// Product is a seller listing. Price and StockQuantity must be current at the
// moment cart totals are computed and when payment is confirmed.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Currency      string              `gorm:"column:currency;not null;default:'USD'"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	ImageURL      string              `gorm:"column:image_url"`
	Status        enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
