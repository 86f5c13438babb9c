package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zobamart/marketplace-backend/internal/logger"
	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// Hold lifecycle events pushed to vendors.
const (
	EventHoldCreated  = "payout_hold_created"
	EventHoldReleased = "payout_hold_released"
)

// HoldRepository is the ledger storage the hold service drives.
type HoldRepository interface {
	Create(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, reason string, refundRequestIDs []string) (*models.PayoutHold, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutHold, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.PayoutHold, error)
	ListActiveByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.PayoutHold, error)
	Release(ctx context.Context, id uuid.UUID) (*models.PayoutHold, bool, error)
}

// HoldService manages the payout hold ledger.
type HoldService struct {
	repo   HoldRepository
	events EventBroadcaster
}

func NewHoldService(repo HoldRepository) *HoldService {
	return &HoldService{repo: repo}
}

// SetBroadcaster wires the live event feed; nil keeps notifications off.
func (s *HoldService) SetBroadcaster(events EventBroadcaster) {
	s.events = events
}

// CreateHold places a new active hold against a vendor's payable balance.
func (s *HoldService) CreateHold(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, reason string, refundRequestIDs []string) (*models.PayoutHold, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "hold amount must be positive")
	}
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "hold reason is required")
	}

	hold, err := s.repo.Create(ctx, vendorID, amount, reason, refundRequestIDs)
	if err != nil {
		return nil, err
	}

	s.notifyVendor(hold.VendorID, EventHoldCreated, hold)
	return hold, nil
}

// GetHold returns one hold.
func (s *HoldService) GetHold(ctx context.Context, id uuid.UUID) (*models.PayoutHold, error) {
	return s.repo.GetByID(ctx, id)
}

// ListHolds returns holds for the admin surface.
func (s *HoldService) ListHolds(ctx context.Context, status string, limit, offset int) ([]models.PayoutHold, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, status, limit, offset)
}

// ListActiveHolds returns a vendor's active holds.
func (s *HoldService) ListActiveHolds(ctx context.Context, vendorID uuid.UUID) ([]models.PayoutHold, error) {
	return s.repo.ListActiveByVendor(ctx, vendorID)
}

// ReleaseHold releases a hold. Releasing an already-released hold succeeds as
// a no-op; the vendor is only notified on an actual transition.
func (s *HoldService) ReleaseHold(ctx context.Context, id uuid.UUID) (*models.PayoutHold, error) {
	hold, alreadyReleased, err := s.repo.Release(ctx, id)
	if err != nil {
		return nil, err
	}

	if !alreadyReleased {
		s.notifyVendor(hold.VendorID, EventHoldReleased, hold)
	}
	return hold, nil
}

func (s *HoldService) notifyVendor(vendorID uuid.UUID, event string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.BroadcastToUser(vendorID, event, data); err != nil && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"vendor_id": vendorID,
			"event":     event,
		}).WithError(err).Warn("failed to notify vendor")
	}
}
