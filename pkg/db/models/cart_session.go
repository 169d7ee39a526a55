package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// CartSession is the unit of checkout state, keyed by an opaque session
// identifier distinct from any user account. TransactionID is unique across
// sessions once set; the uniqueness is checked before the paid transition.
type CartSession struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	SessionID       string                  `gorm:"column:session_id;uniqueIndex;not null"`
	BuyerName       *string                 `gorm:"column:buyer_name"`
	ShippingAddress *string                 `gorm:"column:shipping_address"`
	Notes           *string                 `gorm:"column:notes"`
	Status          enums.CartSessionStatus `gorm:"column:status;not null;default:'pending'"`
	TransactionID   *string                 `gorm:"column:transaction_id;uniqueIndex"`
	BuyerWalletID   *string                 `gorm:"column:buyer_wallet_id"`
	Items           []CartItem              `gorm:"foreignKey:CartSessionID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// IsPaid reports whether the session has settled.
func (c *CartSession) IsPaid() bool {
	return c != nil && c.Status == enums.CartSessionPaid
}
