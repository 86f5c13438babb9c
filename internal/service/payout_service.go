package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zobamart/marketplace-backend/internal/logger"
	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
	"github.com/zobamart/marketplace-backend/internal/reconcile"
)

// MinPayoutAmount is the smallest payout a vendor may request (₦1000).
const MinPayoutAmount = money.Kobo(100_000)

// Vendor-facing payout events.
const (
	EventPayoutApproved = "payout_approved"
	EventPayoutRejected = "payout_rejected"
)

var ErrMinPayoutAmount = apperror.New(apperror.ErrCodeValidation, "minimum payout amount is ₦1000")

// PayoutRepository is the storage surface of the payout service.
type PayoutRepository interface {
	Create(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, accountName, accountNumber, bankName string) (*models.PayoutRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.PayoutRequest, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error)
	ApproveWithAdjustment(ctx context.Context, id uuid.UUID, confirmed bool) (*models.PayoutRequest, money.Kobo, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.PayoutRequest, error)
	GetBalance(ctx context.Context, vendorID uuid.UUID) (*models.VendorBalance, error)
}

// HoldReader is the slice of the hold ledger the payout service reads from.
type HoldReader interface {
	SumActiveByVendor(ctx context.Context, vendorID uuid.UUID) (money.Kobo, error)
}

// RefundReader summarizes a vendor's pending refund exposure.
type RefundReader interface {
	PendingSummary(ctx context.Context, vendorID uuid.UUID) (int, money.Kobo, error)
}

// EventBroadcaster pushes an event to a user's live connections. The ws hub
// implements it; it also persists the notification on its own.
type EventBroadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// ApprovalResult is what the approval gate returns. RequiresConfirmation is
// set when the adjusted amount differs from the request and the caller did
// not confirm; in that case nothing was mutated.
type ApprovalResult struct {
	Payout               *models.PayoutRequest `json:"payout,omitempty"`
	AdjustedAmount       money.Kobo            `json:"adjusted_amount_kobo"`
	RequiresConfirmation bool                  `json:"requires_confirmation"`
}

// BulkItemError reports why one id in a bulk action failed.
type BulkItemError struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BulkResult aggregates a bulk approve/reject run. Items are independent;
// one failure never rolls back the others.
type BulkResult struct {
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
	Errors       []BulkItemError `json:"errors,omitempty"`
}

// PayoutService is the approval gate and bulk coordinator over the payout
// repository.
type PayoutService struct {
	repo    PayoutRepository
	holds   HoldReader
	refunds RefundReader
	events  EventBroadcaster
}

func NewPayoutService(repo PayoutRepository, holds HoldReader, refunds RefundReader) *PayoutService {
	return &PayoutService{
		repo:    repo,
		holds:   holds,
		refunds: refunds,
	}
}

// SetBroadcaster wires the live event feed; nil keeps notifications off.
func (s *PayoutService) SetBroadcaster(events EventBroadcaster) {
	s.events = events
}

// RequestPayout creates a pending payout request for a vendor.
func (s *PayoutService) RequestPayout(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, accountName, accountNumber, bankName string) (*models.PayoutRequest, error) {
	if amount < MinPayoutAmount {
		return nil, ErrMinPayoutAmount
	}
	return s.repo.Create(ctx, vendorID, amount, accountName, accountNumber, bankName)
}

// GetPayout returns one payout request.
func (s *PayoutService) GetPayout(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPayouts returns payout requests for the admin table.
func (s *PayoutService) ListPayouts(ctx context.Context, status string, limit, offset int) ([]models.PayoutRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, status, limit, offset)
}

// ListVendorPayouts returns the vendor's own payout requests.
func (s *PayoutService) ListVendorPayouts(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByVendor(ctx, vendorID, limit, offset)
}

// Approve runs the hold-aware approval gate for one payout request.
//
// A zero adjusted amount blocks approval entirely. An adjusted amount below
// the request requires confirmed=true; without it the result carries the
// adjusted amount and RequiresConfirmation so the caller can ask.
func (s *PayoutService) Approve(ctx context.Context, id uuid.UUID, confirmed bool) (*ApprovalResult, error) {
	payout, adjusted, err := s.repo.ApproveWithAdjustment(ctx, id, confirmed)
	if err != nil {
		if errors.Is(err, apperror.ErrConfirmationRequired) {
			return &ApprovalResult{
				AdjustedAmount:       adjusted,
				RequiresConfirmation: true,
			}, err
		}
		return nil, err
	}

	s.notifyVendor(payout.VendorID, EventPayoutApproved, payout)

	return &ApprovalResult{
		Payout:         payout,
		AdjustedAmount: adjusted,
	}, nil
}

// Reject transitions a pending payout to rejected with a reason.
func (s *PayoutService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.PayoutRequest, error) {
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "rejection reason is required")
	}

	payout, err := s.repo.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	s.notifyVendor(payout.VendorID, EventPayoutRejected, payout)
	return payout, nil
}

// BulkApprove applies the hold-aware gate to each id independently and
// sequentially. Requests whose adjusted amount differs from the requested
// amount fail with a confirmation-required error and must be reviewed singly.
func (s *PayoutService) BulkApprove(ctx context.Context, ids []uuid.UUID) *BulkResult {
	result := &BulkResult{}
	for _, id := range ids {
		if _, err := s.Approve(ctx, id, false); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, BulkItemError{ID: id, Error: err.Error()})
			s.logBulkFailure("bulk_approve", id, err)
			continue
		}
		result.SuccessCount++
	}
	return result
}

// BulkReject rejects each id independently with a shared reason.
func (s *PayoutService) BulkReject(ctx context.Context, ids []uuid.UUID, reason string) *BulkResult {
	result := &BulkResult{}
	for _, id := range ids {
		if _, err := s.Reject(ctx, id, reason); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, BulkItemError{ID: id, Error: err.Error()})
			s.logBulkFailure("bulk_reject", id, err)
			continue
		}
		result.SuccessCount++
	}
	return result
}

// VendorImpact computes the refund-impact snapshot for a vendor against a
// requested amount. Read path only; the approval gate recomputes under locks.
func (s *PayoutService) VendorImpact(ctx context.Context, vendorID uuid.UUID, requestAmount money.Kobo) (*reconcile.RefundImpact, error) {
	count, refundAmount, err := s.refunds.PendingSummary(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	holdAmount, err := s.holds.SumActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	impact := reconcile.BuildRefundImpact(count, refundAmount, holdAmount, requestAmount)
	return &impact, nil
}

// GetVendorBalance returns the vendor's withdrawable balance.
func (s *PayoutService) GetVendorBalance(ctx context.Context, vendorID uuid.UUID) (*models.VendorBalance, error) {
	return s.repo.GetBalance(ctx, vendorID)
}

func (s *PayoutService) logBulkFailure(action string, id uuid.UUID, err error) {
	if logger.Log == nil {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"action":    action,
		"payout_id": id,
	}).WithError(err).Warn("bulk payout item failed")
}

// notifyVendor is fire and forget: a notification failure never blocks or
// rolls back a payout transition.
func (s *PayoutService) notifyVendor(vendorID uuid.UUID, event string, data any) {
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
