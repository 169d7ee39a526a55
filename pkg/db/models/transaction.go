package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// Transaction is a settlement record written when a payment verifies. One row
// per purchased line item, all sharing the same chain transaction hash.
type Transaction struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	ChainTxHash string                  `gorm:"column:chain_tx_hash;index;not null"`
	SessionID   string                  `gorm:"column:session_id;index;not null"`
	ProductID   uuid.UUID               `gorm:"column:product_id;type:uuid;not null"`
	Product     *Product                `gorm:"foreignKey:ProductID"`
	Quantity    int                     `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal         `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal         `gorm:"column:total_price;type:numeric(12,2);not null"`
	Currency    string                  `gorm:"column:currency;not null;default:'USD'"`
	BuyerWallet *string                 `gorm:"column:buyer_wallet"`
	Status      enums.TransactionStatus `gorm:"column:status;not null;default:'confirmed'"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}
