package auth

import (
	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// RegisterInput is the validated signup payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     enums.UserRole
}

// LoginInput is the validated login payload.
type LoginInput struct {
	Username string
	Password string
}

// UserDTO is the public view of an account.
type UserDTO struct {
	ID       uuid.UUID      `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Role     enums.UserRole `json:"role"`
}

// AuthResult carries a minted token together with the account it belongs to.
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func toUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
