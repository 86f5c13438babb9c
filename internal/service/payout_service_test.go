package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
	"github.com/zobamart/marketplace-backend/internal/reconcile"
)

type mockPayoutRepo struct {
	mock.Mock
}

func (m *mockPayoutRepo) Create(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, accountName, accountNumber, bankName string) (*models.PayoutRequest, error) {
	args := m.Called(ctx, vendorID, amount, accountName, accountNumber, bankName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) List(ctx context.Context, status string, limit, offset int) ([]models.PayoutRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error) {
	args := m.Called(ctx, vendorID, limit, offset)
	return args.Get(0).([]models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) ApproveWithAdjustment(ctx context.Context, id uuid.UUID, confirmed bool) (*models.PayoutRequest, money.Kobo, error) {
	args := m.Called(ctx, id, confirmed)
	var payout *models.PayoutRequest
	if args.Get(0) != nil {
		payout = args.Get(0).(*models.PayoutRequest)
	}
	return payout, args.Get(1).(money.Kobo), args.Error(2)
}

func (m *mockPayoutRepo) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) GetBalance(ctx context.Context, vendorID uuid.UUID) (*models.VendorBalance, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorBalance), args.Error(1)
}

type mockHoldReader struct {
	mock.Mock
}

func (m *mockHoldReader) SumActiveByVendor(ctx context.Context, vendorID uuid.UUID) (money.Kobo, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(money.Kobo), args.Error(1)
}

type mockRefundReader struct {
	mock.Mock
}

func (m *mockRefundReader) PendingSummary(ctx context.Context, vendorID uuid.UUID) (int, money.Kobo, error) {
	args := m.Called(ctx, vendorID)
	return args.Int(0), args.Get(1).(money.Kobo), args.Error(2)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	args := m.Called(userID, event, data)
	return args.Error(0)
}

func newPayoutServiceForTest() (*PayoutService, *mockPayoutRepo, *mockHoldReader, *mockRefundReader) {
	repo := new(mockPayoutRepo)
	holds := new(mockHoldReader)
	refunds := new(mockRefundReader)
	return NewPayoutService(repo, holds, refunds), repo, holds, refunds
}

func TestPayoutService_RequestPayout_BelowMinimum(t *testing.T) {
	svc, _, _, _ := newPayoutServiceForTest()

	_, err := svc.RequestPayout(context.Background(), uuid.New(), money.Kobo(50_000), "Ada Obi", "0123456789", "GTBank")
	assert.ErrorIs(t, err, ErrMinPayoutAmount)
}

func TestPayoutService_RequestPayout_Success(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	ctx := context.Background()
	vendorID := uuid.New()

	expected := &models.PayoutRequest{ID: uuid.New(), VendorID: vendorID, RequestAmount: 500_000, Status: models.PayoutStatusPending}
	repo.On("Create", ctx, vendorID, money.Kobo(500_000), "Ada Obi", "0123456789", "GTBank").Return(expected, nil)

	payout, err := svc.RequestPayout(ctx, vendorID, money.Kobo(500_000), "Ada Obi", "0123456789", "GTBank")
	assert.NoError(t, err)
	assert.Equal(t, expected, payout)
	repo.AssertExpectations(t)
}

func TestPayoutService_Approve_NoHolds(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	events := new(mockBroadcaster)
	svc.SetBroadcaster(events)
	ctx := context.Background()

	vendorID := uuid.New()
	payoutID := uuid.New()
	approved := money.Kobo(1_000_000)
	payout := &models.PayoutRequest{
		ID:             payoutID,
		VendorID:       vendorID,
		RequestAmount:  1_000_000,
		ApprovedAmount: &approved,
		Status:         models.PayoutStatusApproved,
	}
	repo.On("ApproveWithAdjustment", ctx, payoutID, false).Return(payout, money.Kobo(1_000_000), nil)
	events.On("BroadcastToUser", vendorID, EventPayoutApproved, payout).Return(nil)

	result, err := svc.Approve(ctx, payoutID, false)
	assert.NoError(t, err)
	assert.False(t, result.RequiresConfirmation)
	assert.Equal(t, money.Kobo(1_000_000), result.AdjustedAmount)
	assert.Equal(t, payout, result.Payout)
	events.AssertExpectations(t)
}

func TestPayoutService_Approve_ConfirmationRequired(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	events := new(mockBroadcaster)
	svc.SetBroadcaster(events)
	ctx := context.Background()
	payoutID := uuid.New()

	// Request of ₦10000 with a ₦5000 hold: nothing mutates without confirmed.
	repo.On("ApproveWithAdjustment", ctx, payoutID, false).
		Return(nil, money.Kobo(500_000), apperror.ErrConfirmationRequired)

	result, err := svc.Approve(ctx, payoutID, false)
	assert.ErrorIs(t, err, apperror.ErrConfirmationRequired)
	assert.True(t, result.RequiresConfirmation)
	assert.Equal(t, money.Kobo(500_000), result.AdjustedAmount)
	assert.Nil(t, result.Payout)
	events.AssertNotCalled(t, "BroadcastToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutService_Approve_Confirmed(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	ctx := context.Background()

	vendorID := uuid.New()
	payoutID := uuid.New()
	adjusted := money.Kobo(500_000)
	payout := &models.PayoutRequest{
		ID:             payoutID,
		VendorID:       vendorID,
		RequestAmount:  1_000_000,
		ApprovedAmount: &adjusted,
		Status:         models.PayoutStatusApproved,
	}
	repo.On("ApproveWithAdjustment", ctx, payoutID, true).Return(payout, adjusted, nil)

	result, err := svc.Approve(ctx, payoutID, true)
	assert.NoError(t, err)
	assert.Equal(t, adjusted, result.AdjustedAmount)
	assert.Equal(t, models.PayoutStatusApproved, result.Payout.Status)
}

func TestPayoutService_Approve_ZeroBalance(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	ctx := context.Background()
	payoutID := uuid.New()

	repo.On("ApproveWithAdjustment", ctx, payoutID, true).
		Return(nil, money.Kobo(0), apperror.ErrZeroBalance)

	result, err := svc.Approve(ctx, payoutID, true)
	assert.ErrorIs(t, err, apperror.ErrZeroBalance)
	assert.Nil(t, result)
}

func TestPayoutService_Reject_RequiresReason(t *testing.T) {
	svc, _, _, _ := newPayoutServiceForTest()

	_, err := svc.Reject(context.Background(), uuid.New(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}

func TestPayoutService_Reject_Success(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	events := new(mockBroadcaster)
	svc.SetBroadcaster(events)
	ctx := context.Background()

	vendorID := uuid.New()
	payoutID := uuid.New()
	reason := "account details mismatch"
	payout := &models.PayoutRequest{ID: payoutID, VendorID: vendorID, Status: models.PayoutStatusRejected, RejectionReason: &reason}
	repo.On("Reject", ctx, payoutID, reason).Return(payout, nil)
	events.On("BroadcastToUser", vendorID, EventPayoutRejected, payout).Return(nil)

	got, err := svc.Reject(ctx, payoutID, reason)
	assert.NoError(t, err)
	assert.Equal(t, payout, got)
	events.AssertExpectations(t)
}

func TestPayoutService_BulkApprove_ItemsIndependent(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	ctx := context.Background()

	okID1 := uuid.New()
	failID := uuid.New()
	okID2 := uuid.New()

	approve := func(id uuid.UUID) *models.PayoutRequest {
		amount := money.Kobo(200_000)
		return &models.PayoutRequest{ID: id, VendorID: uuid.New(), RequestAmount: amount, ApprovedAmount: &amount, Status: models.PayoutStatusApproved}
	}
	repo.On("ApproveWithAdjustment", ctx, okID1, false).Return(approve(okID1), money.Kobo(200_000), nil)
	repo.On("ApproveWithAdjustment", ctx, failID, false).Return(nil, money.Kobo(0), apperror.ErrPayoutNotPending)
	repo.On("ApproveWithAdjustment", ctx, okID2, false).Return(approve(okID2), money.Kobo(200_000), nil)

	result := svc.BulkApprove(ctx, []uuid.UUID{okID1, failID, okID2})

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, failID, result.Errors[0].ID)
	repo.AssertExpectations(t)
}

func TestPayoutService_BulkApprove_ShortfallNotConfirmed(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	ctx := context.Background()
	payoutID := uuid.New()

	// Bulk never confirms; holds push the item into the error list.
	repo.On("ApproveWithAdjustment", ctx, payoutID, false).
		Return(nil, money.Kobo(300_000), apperror.ErrConfirmationRequired)

	result := svc.BulkApprove(ctx, []uuid.UUID{payoutID})
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestPayoutService_BulkReject(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	ctx := context.Background()

	okID := uuid.New()
	missingID := uuid.New()
	reason := "suspected fraud"

	payout := &models.PayoutRequest{ID: okID, VendorID: uuid.New(), Status: models.PayoutStatusRejected, RejectionReason: &reason}
	repo.On("Reject", ctx, okID, reason).Return(payout, nil)
	repo.On("Reject", ctx, missingID, reason).Return(nil, apperror.ErrPayoutNotFound)

	result := svc.BulkReject(ctx, []uuid.UUID{okID, missingID}, reason)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, missingID, result.Errors[0].ID)
}

func TestPayoutService_VendorImpact(t *testing.T) {
	svc, _, holds, refunds := newPayoutServiceForTest()
	ctx := context.Background()
	vendorID := uuid.New()

	refunds.On("PendingSummary", ctx, vendorID).Return(3, money.Kobo(200_000), nil)
	holds.On("SumActiveByVendor", ctx, vendorID).Return(money.Kobo(150_000), nil)

	impact, err := svc.VendorImpact(ctx, vendorID, money.Kobo(1_000_000))
	assert.NoError(t, err)
	assert.Equal(t, 3, impact.PendingRefunds)
	assert.Equal(t, money.Kobo(850_000), impact.AvailableForPayout)
	assert.Equal(t, reconcile.RiskMedium, impact.RiskLevel)
}

func TestPayoutService_NotificationFailureDoesNotBlock(t *testing.T) {
	svc, repo, _, _ := newPayoutServiceForTest()
	events := new(mockBroadcaster)
	svc.SetBroadcaster(events)
	ctx := context.Background()

	vendorID := uuid.New()
	payoutID := uuid.New()
	amount := money.Kobo(500_000)
	payout := &models.PayoutRequest{ID: payoutID, VendorID: vendorID, RequestAmount: amount, ApprovedAmount: &amount, Status: models.PayoutStatusApproved}
	repo.On("ApproveWithAdjustment", ctx, payoutID, false).Return(payout, amount, nil)
	events.On("BroadcastToUser", vendorID, EventPayoutApproved, payout).Return(assert.AnError)

	result, err := svc.Approve(ctx, payoutID, false)
	assert.NoError(t, err)
	assert.Equal(t, models.PayoutStatusApproved, result.Payout.Status)
}
