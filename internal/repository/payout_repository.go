package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
	"github.com/zobamart/marketplace-backend/internal/reconcile"
)

type PayoutRepository struct {
	db *sqlx.DB
}

func NewPayoutRepository(db *sqlx.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// Create debits the vendor balance and records a pending payout request in
// one transaction. The balance row is locked so concurrent requests cannot
// overdraw.
func (r *PayoutRepository) Create(ctx context.Context, vendorID uuid.UUID, amount money.Kobo, accountName, accountNumber, bankName string) (*models.PayoutRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "begin payout transaction")
	}
	defer tx.Rollback()

	var available money.Kobo
	err = tx.GetContext(ctx, &available, `SELECT available FROM vendor_balances WHERE vendor_id = $1 FOR UPDATE`, vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrInsufficientFunds
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "read vendor balance")
	}
	if available < amount {
		return nil, apperror.ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `UPDATE vendor_balances SET available = available - $2, updated_at = NOW() WHERE vendor_id = $1`, vendorID, amount)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "debit vendor balance")
	}

	var p models.PayoutRequest
	err = tx.GetContext(ctx, &p, `
		INSERT INTO payout_requests (vendor_id, request_amount, account_name, account_number, bank_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, vendorID, amount, accountName, accountNumber, bankName)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "insert payout request")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "commit payout request")
	}
	return &p, nil
}

func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error) {
	var p models.PayoutRequest
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payout_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrPayoutNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "get payout request")
	}
	return &p, nil
}

// List returns payout requests, optionally filtered by status, newest first.
func (r *PayoutRepository) List(ctx context.Context, status string, limit, offset int) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &payouts, `
			SELECT * FROM payout_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &payouts, `
			SELECT * FROM payout_requests WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, status, limit, offset)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "list payout requests")
	}
	return payouts, nil
}

func (r *PayoutRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	err := r.db.SelectContext(ctx, &payouts, `
		SELECT * FROM payout_requests WHERE vendor_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, vendorID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "list vendor payout requests")
	}
	return payouts, nil
}

// ApproveWithAdjustment runs the whole approval gate in one transaction:
// lock the payout row, lock and sum the vendor's active holds, compute the
// adjusted amount, then transition the row. Locking both before computing is
// what prevents two concurrent approvals from double-spending the balance.
//
// When the adjusted amount differs from the request and confirmed is false,
// nothing is mutated and the adjusted amount is returned alongside
// apperror.ErrConfirmationRequired so the caller can surface it.
func (r *PayoutRepository) ApproveWithAdjustment(ctx context.Context, id uuid.UUID, confirmed bool) (*models.PayoutRequest, money.Kobo, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "begin approval transaction")
	}
	defer tx.Rollback()

	var p models.PayoutRequest
	err = tx.GetContext(ctx, &p, `SELECT * FROM payout_requests WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, apperror.ErrPayoutNotFound
		}
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "lock payout request")
	}
	if p.Status != models.PayoutStatusPending {
		return nil, 0, apperror.ErrPayoutNotPending
	}

	// Lock the vendor's active holds so a release cannot land between the
	// sum and the status transition.
	var holdAmount money.Kobo
	err = tx.GetContext(ctx, &holdAmount, `
		SELECT COALESCE(SUM(hold_amount), 0) FROM (
			SELECT hold_amount FROM payout_holds
			WHERE vendor_id = $1 AND status = $2
			FOR UPDATE
		) active
	`, p.VendorID, models.HoldStatusActive)
	if err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "sum active holds")
	}

	adjusted := reconcile.AvailableForPayout(p.RequestAmount, holdAmount)
	if adjusted == 0 {
		return nil, 0, apperror.ErrZeroBalance
	}
	if adjusted < p.RequestAmount && !confirmed {
		return nil, adjusted, apperror.ErrConfirmationRequired
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE payout_requests SET status = $2, approved_amount = $3, processed_at = $4 WHERE id = $1
	`, p.ID, models.PayoutStatusApproved, adjusted, now)
	if err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "approve payout request")
	}

	// The withheld remainder goes back to the vendor's balance; it was
	// debited in full when the request was created.
	if remainder := p.RequestAmount - adjusted; remainder > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE vendor_balances SET available = available + $2, updated_at = NOW() WHERE vendor_id = $1
		`, p.VendorID, remainder)
		if err != nil {
			return nil, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "return withheld remainder")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "commit approval")
	}

	p.Status = models.PayoutStatusApproved
	p.ApprovedAmount = &adjusted
	p.ProcessedAt = &now
	return &p, adjusted, nil
}

// Reject transitions a pending request to rejected and returns the full
// requested amount to the vendor balance.
func (r *PayoutRepository) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.PayoutRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "begin rejection transaction")
	}
	defer tx.Rollback()

	var p models.PayoutRequest
	err = tx.GetContext(ctx, &p, `SELECT * FROM payout_requests WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPayoutNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "lock payout request")
	}
	if p.Status != models.PayoutStatusPending {
		return nil, apperror.ErrPayoutNotPending
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE payout_requests SET status = $2, rejection_reason = $3, processed_at = $4 WHERE id = $1
	`, p.ID, models.PayoutStatusRejected, reason, now)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "reject payout request")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vendor_balances SET available = available + $2, updated_at = NOW() WHERE vendor_id = $1
	`, p.VendorID, p.RequestAmount)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "return rejected amount")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "commit rejection")
	}

	p.Status = models.PayoutStatusRejected
	p.RejectionReason = &reason
	p.ProcessedAt = &now
	return &p, nil
}

// GetBalance returns the vendor's balance row, creating it on first read.
func (r *PayoutRepository) GetBalance(ctx context.Context, vendorID uuid.UUID) (*models.VendorBalance, error) {
	var balance models.VendorBalance
	query := `
		INSERT INTO vendor_balances (vendor_id, available)
		VALUES ($1, 0)
		ON CONFLICT (vendor_id) DO UPDATE SET updated_at = NOW()
		RETURNING vendor_id, available, updated_at
	`
	if err := r.db.GetContext(ctx, &balance, query, vendorID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "get vendor balance")
	}
	return &balance, nil
}
