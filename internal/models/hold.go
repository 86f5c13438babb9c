package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// Payout hold statuses. Released holds are kept for audit, never deleted.
const (
	HoldStatusActive   = "active"
	HoldStatusReleased = "released"
)

// PayoutHold is an active claim against a vendor's payable balance caused by
// refund risk. It references the refund requests that triggered it but does
// not own them.
type PayoutHold struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	VendorID         uuid.UUID      `db:"vendor_id" json:"vendor_id"`
	HoldAmount       money.Kobo     `db:"hold_amount" json:"hold_amount_kobo"`
	Reason           string         `db:"reason" json:"reason"`
	Status           string         `db:"status" json:"status"`
	RefundRequestIDs pq.StringArray `db:"refund_request_ids" json:"refund_request_ids"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	ReleasedAt       *time.Time     `db:"released_at" json:"released_at,omitempty"`
}
