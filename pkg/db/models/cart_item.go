package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a line in a cart session. A (cart_session_id, product_id) pair
// appears at most once; adding the same product again increments Quantity.
type CartItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartSessionID uuid.UUID `gorm:"column:cart_session_id;type:uuid;not null;uniqueIndex:ux_cart_items_session_product"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_items_session_product"`
	Product       *Product  `gorm:"foreignKey:ProductID"`
	Quantity      int       `gorm:"column:quantity;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
