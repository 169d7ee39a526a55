package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// Conversation is one turn of an agent exchange. Rows are append-only:
// the repository exposes no update or delete operations.
type Conversation struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string                  `gorm:"column:user_id;index;not null"`
	Message   string                  `gorm:"column:message;not null"`
	Actor     enums.ConversationActor `gorm:"column:actor;not null"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}
