package conversations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// Repository persists the append-only conversation log. Turns are never
// updated or deleted once written.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append writes a single conversation turn.
func (r *Repository) Append(ctx context.Context, userID, message string, actor enums.ConversationActor) (*models.Conversation, error) {
	turn := &models.Conversation{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Actor:   actor,
	}
	if err := r.db.WithContext(ctx).Create(turn).Error; err != nil {
		return nil, err
	}
	return turn, nil
}

// RecentByUser returns the latest limit turns for the user in chronological
// order, oldest first.
func (r *Repository) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	var rows []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for prompt assembly.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
