package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

type mockHoldRepo struct {
	mock.Mock
}

func (m *mockHoldRepo) Create(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, reason string, refundRequestIDs []string) (*models.PayoutHold, error) {
	args := m.Called(ctx, vendorID, amount, reason, refundRequestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutHold), args.Error(1)
}

func (m *mockHoldRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutHold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutHold), args.Error(1)
}

func (m *mockHoldRepo) List(ctx context.Context, status string, limit, offset int) ([]models.PayoutHold, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.PayoutHold), args.Error(1)
}

func (m *mockHoldRepo) ListActiveByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.PayoutHold, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]models.PayoutHold), args.Error(1)
}

func (m *mockHoldRepo) Release(ctx context.Context, id uuid.UUID) (*models.PayoutHold, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.PayoutHold), args.Bool(1), args.Error(2)
}

func TestHoldService_CreateHold_Validation(t *testing.T) {
	svc := NewHoldService(new(mockHoldRepo))
	ctx := context.Background()
	vendorID := uuid.New()

	_, err := svc.CreateHold(ctx, vendorID, 0, "refund dispute", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "positive")

	_, err = svc.CreateHold(ctx, vendorID, -100, "refund dispute", nil)
	assert.Error(t, err)

	_, err = svc.CreateHold(ctx, vendorID, 100_000, "", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}

func TestHoldService_CreateHold_Success(t *testing.T) {
	repo := new(mockHoldRepo)
	events := new(mockBroadcaster)
	svc := NewHoldService(repo)
	svc.SetBroadcaster(events)
	ctx := context.Background()

	vendorID := uuid.New()
	refundIDs := []string{uuid.NewString(), uuid.NewString()}
	hold := &models.PayoutHold{
		ID:         uuid.New(),
		VendorID:   vendorID,
		HoldAmount: 250_000,
		Reason:     "pending refund dispute",
		Status:     models.HoldStatusActive,
	}
	repo.On("Create", ctx, vendorID, money.Kobo(250_000), "pending refund dispute", refundIDs).Return(hold, nil)
	events.On("BroadcastToUser", vendorID, EventHoldCreated, hold).Return(nil)

	got, err := svc.CreateHold(ctx, vendorID, 250_000, "pending refund dispute", refundIDs)
	assert.NoError(t, err)
	assert.Equal(t, hold, got)
	events.AssertExpectations(t)
}

func TestHoldService_ReleaseHold_Transition(t *testing.T) {
	repo := new(mockHoldRepo)
	events := new(mockBroadcaster)
	svc := NewHoldService(repo)
	svc.SetBroadcaster(events)
	ctx := context.Background()

	vendorID := uuid.New()
	holdID := uuid.New()
	releasedAt := time.Now()
	hold := &models.PayoutHold{
		ID:         holdID,
		VendorID:   vendorID,
		HoldAmount: 250_000,
		Status:     models.HoldStatusReleased,
		ReleasedAt: &releasedAt,
	}
	repo.On("Release", ctx, holdID).Return(hold, false, nil)
	events.On("BroadcastToUser", vendorID, EventHoldReleased, hold).Return(nil)

	got, err := svc.ReleaseHold(ctx, holdID)
	assert.NoError(t, err)
	assert.Equal(t, models.HoldStatusReleased, got.Status)
	events.AssertExpectations(t)
}

func TestHoldService_ReleaseHold_AlreadyReleasedIsNoOp(t *testing.T) {
	repo := new(mockHoldRepo)
	events := new(mockBroadcaster)
	svc := NewHoldService(repo)
	svc.SetBroadcaster(events)
	ctx := context.Background()

	holdID := uuid.New()
	releasedAt := time.Now().Add(-time.Hour)
	hold := &models.PayoutHold{
		ID:         holdID,
		VendorID:   uuid.New(),
		Status:     models.HoldStatusReleased,
		ReleasedAt: &releasedAt,
	}
	repo.On("Release", ctx, holdID).Return(hold, true, nil)

	got, err := svc.ReleaseHold(ctx, holdID)
	assert.NoError(t, err)
	assert.Equal(t, hold, got)
	// Second release is a success without a second notification.
	events.AssertNotCalled(t, "BroadcastToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestHoldService_ReleaseHold_NotFound(t *testing.T) {
	repo := new(mockHoldRepo)
	svc := NewHoldService(repo)
	ctx := context.Background()
	holdID := uuid.New()

	repo.On("Release", ctx, holdID).Return(nil, false, apperror.ErrHoldNotFound)

	_, err := svc.ReleaseHold(ctx, holdID)
	assert.ErrorIs(t, err, apperror.ErrHoldNotFound)
}

func TestHoldService_ListHolds_ClampsLimit(t *testing.T) {
	repo := new(mockHoldRepo)
	svc := NewHoldService(repo)
	ctx := context.Background()

	repo.On("List", ctx, models.HoldStatusActive, 20, 0).Return([]models.PayoutHold{}, nil)

	_, err := svc.ListHolds(ctx, models.HoldStatusActive, 500, 0)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
