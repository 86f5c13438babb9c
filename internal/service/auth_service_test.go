package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        "vendor@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleVendor,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", 15*time.Minute))
	ctx := context.Background()

	user := testUser(t, "correct-horse")
	repo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	repo.On("UpdateLastLoginAt", ctx, user.ID).Return(nil)

	result, err := svc.Login(ctx, user.Email, "correct-horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, user, result.User)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	repo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", 15*time.Minute))
	ctx := context.Background()

	user := testUser(t, "correct-horse")
	repo.On("GetByEmail", ctx, user.Email).Return(user, nil)

	_, err := svc.Login(ctx, user.Email, "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", 15*time.Minute))
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperror.ErrUserNotFound)

	// Unknown email maps to the same error as a wrong password.
	_, err := svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", 15*time.Minute))
	ctx := context.Background()

	user := testUser(t, "correct-horse")
	user.IsActive = false
	repo.On("GetByEmail", ctx, user.Email).Return(user, nil)

	_, err := svc.Login(ctx, user.Email, "correct-horse")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute)
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	token, _, err := tm.GenerateAccess(user)
	assert.NoError(t, err)

	userID, role, err := tm.ParseAccess(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute)
	other := NewTokenManager("other-secret", 15*time.Minute)
	user := &models.User{ID: uuid.New(), Role: models.RoleVendor}

	token, _, err := tm.GenerateAccess(user)
	assert.NoError(t, err)

	_, _, err = other.ParseAccess(token)
	assert.Error(t, err)
}
