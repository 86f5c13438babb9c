package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// RefundRepository reads refund requests. The payout core never mutates them;
// refund resolution belongs to the order/refund flow.
type RefundRepository struct {
	db *sqlx.DB
}

func NewRefundRepository(db *sqlx.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

// ListPending returns pending refunds, optionally scoped to one vendor.
func (r *RefundRepository) ListPending(ctx context.Context, vendorID *uuid.UUID, limit, offset int) ([]models.RefundRequest, error) {
	var refunds []models.RefundRequest
	var err error
	if vendorID == nil {
		err = r.db.SelectContext(ctx, &refunds, `
			SELECT * FROM refund_requests WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, models.RefundStatusPending, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &refunds, `
			SELECT * FROM refund_requests WHERE status = $1 AND vendor_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4
		`, models.RefundStatusPending, *vendorID, limit, offset)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "list pending refunds")
	}
	return refunds, nil
}

// PendingSummary returns the count and total amount of a vendor's pending
// refunds for the refund-impact view.
func (r *RefundRepository) PendingSummary(ctx context.Context, vendorID uuid.UUID) (int, money.Kobo, error) {
	var summary struct {
		Count int        `db:"count"`
		Total money.Kobo `db:"total"`
	}
	err := r.db.GetContext(ctx, &summary, `
		SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total
		FROM refund_requests WHERE vendor_id = $1 AND status = $2
	`, vendorID, models.RefundStatusPending)
	if err != nil {
		return 0, 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "summarize pending refunds")
	}
	return summary.Count, summary.Total, nil
}
