package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// HoldRepository is the payout hold ledger. Holds are created when pending
// refunds look risky and released when the underlying refunds resolve;
// released rows stay in the table for audit.
type HoldRepository struct {
	db *sqlx.DB
}

func NewHoldRepository(db *sqlx.DB) *HoldRepository {
	return &HoldRepository{db: db}
}

// Create records a new active hold against a vendor.
func (r *HoldRepository) Create(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, reason string, refundRequestIDs []string) (*models.PayoutHold, error) {
	var h models.PayoutHold
	err := r.db.GetContext(ctx, &h, `
		INSERT INTO payout_holds (vendor_id, hold_amount, reason, refund_request_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, vendorID, amount, reason, pq.StringArray(refundRequestIDs))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "insert payout hold")
	}
	return &h, nil
}

func (r *HoldRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutHold, error) {
	var h models.PayoutHold
	err := r.db.GetContext(ctx, &h, `SELECT * FROM payout_holds WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrHoldNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "get payout hold")
	}
	return &h, nil
}

// List returns holds, optionally filtered by status, newest first.
func (r *HoldRepository) List(ctx context.Context, status string, limit, offset int) ([]models.PayoutHold, error) {
	var holds []models.PayoutHold
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &holds, `
			SELECT * FROM payout_holds ORDER BY created_at DESC LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &holds, `
			SELECT * FROM payout_holds WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, status, limit, offset)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "list payout holds")
	}
	return holds, nil
}

// ListActiveByVendor returns the vendor's active holds.
func (r *HoldRepository) ListActiveByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.PayoutHold, error) {
	var holds []models.PayoutHold
	err := r.db.SelectContext(ctx, &holds, `
		SELECT * FROM payout_holds WHERE vendor_id = $1 AND status = $2 ORDER BY created_at DESC
	`, vendorID, models.HoldStatusActive)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "list active holds")
	}
	return holds, nil
}

// SumActiveByVendor returns the vendor's total active hold amount. This is
// the read-path variant; the approval gate sums with row locks inside its own
// transaction instead.
func (r *HoldRepository) SumActiveByVendor(ctx context.Context, vendorID uuid.UUID) (money.Kobo, error) {
	var total money.Kobo
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(hold_amount), 0) FROM payout_holds WHERE vendor_id = $1 AND status = $2
	`, vendorID, models.HoldStatusActive)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "sum active holds")
	}
	return total, nil
}

// Release transitions a hold to released. Releasing an already-released hold
// is a successful no-op; alreadyReleased reports which case occurred.
func (r *HoldRepository) Release(ctx context.Context, id uuid.UUID) (hold *models.PayoutHold, alreadyReleased bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, apperror.Wrap(err, apperror.ErrCodeDataAccess, "begin release transaction")
	}
	defer tx.Rollback()

	var h models.PayoutHold
	err = tx.GetContext(ctx, &h, `SELECT * FROM payout_holds WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, apperror.ErrHoldNotFound
		}
		return nil, false, apperror.Wrap(err, apperror.ErrCodeDataAccess, "lock payout hold")
	}

	if h.Status == models.HoldStatusReleased {
		return &h, true, nil
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE payout_holds SET status = $2, released_at = $3 WHERE id = $1
	`, h.ID, models.HoldStatusReleased, now)
	if err != nil {
		return nil, false, apperror.Wrap(err, apperror.ErrCodeDataAccess, "release payout hold")
	}

	if err := tx.Commit(); err != nil {
		return nil, false, apperror.Wrap(err, apperror.ErrCodeDataAccess, "commit release")
	}

	h.Status = models.HoldStatusReleased
	h.ReleasedAt = &now
	return &h, false, nil
}
