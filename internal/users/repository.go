package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
)

// Repository exposes persistence operations for user accounts.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user, assigning an ID when missing.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByUsername loads a user by exact username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByEmail loads a user by exact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
