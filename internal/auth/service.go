package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/internal/users"
	pkgauth "github.com/aivanahq/aivana-backend/pkg/auth"
	"github.com/aivanahq/aivana-backend/pkg/config"
	"github.com/aivanahq/aivana-backend/pkg/db"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/security"
)

// Service handles account registration and login.
type Service struct {
	users       *users.Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

func NewService(userRepo *users.Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) *Service {
	return &Service{users: userRepo, jwtCfg: jwtCfg, passwordCfg: passwordCfg}
}

// Register creates an account and returns a fresh token for it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role := input.Role
	if role == "" {
		role = enums.UserRoleSeller
	}
	if !role.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "hashing password")
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "username or email already taken")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating user")
	}

	return s.mint(user)
}

// Login checks the credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}

	return s.mint(user)
}

// Profile loads the public view of the authenticated account.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	dto := toUserDTO(user)
	return &dto, nil
}

func (s *Service) mint(user *models.User) (*AuthResult, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "minting token")
	}
	return &AuthResult{Token: token, User: toUserDTO(user)}, nil
}
