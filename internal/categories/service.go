package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/pkg/db"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
)

// CategoryInput holds the payload for creating or updating a category.
type CategoryInput struct {
	Name        string
	Description *string
}

// Service exposes category management for controllers.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing categories")
	}
	return rows, nil
}

// Get loads a single category.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}
	return row, nil
}

// Create inserts a new category.
func (s *Service) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	row := &models.Category{Name: name}
	if input.Description != nil {
		row.Description = *input.Description
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.Wrap(apperrors.CodeConflict, err, "category name already taken")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating category")
	}
	return created, nil
}

// Update applies changes to an existing category.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		row.Name = name
	}
	if input.Description != nil {
		row.Description = *input.Description
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.Wrap(apperrors.CodeConflict, err, "category name already taken")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating category")
	}
	return row, nil
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting category")
	}
	return nil
}
