package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/zobamart/marketplace-backend/internal/logger"
	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
)

// AuthRepository describes what the auth service needs from storage.
type AuthRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error
}

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperror.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenManager.GenerateAccess(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "issue access token")
	}

	// Best effort; a failed timestamp update must not fail the login.
	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil && logger.Log != nil {
		logger.Log.WithField("user_id", user.ID).WithError(err).Warn("failed to update last login")
	}

	return &LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
