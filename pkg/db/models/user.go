package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// User is a registered marketplace account. Sellers own product listings;
// chat callers do not have to be registered users.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Username     string         `gorm:"column:username;uniqueIndex;not null"`
	Email        string         `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'seller'"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
