package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// Payout request statuses. A request leaves pending exactly once.
const (
	PayoutStatusPending  = "pending"
	PayoutStatusApproved = "approved"
	PayoutStatusRejected = "rejected"
)

// PayoutRequest is a vendor's ask to withdraw earned funds. ApprovedAmount is
// set on approval and may be lower than RequestAmount when active holds were
// subtracted.
type PayoutRequest struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	VendorID        uuid.UUID   `db:"vendor_id" json:"vendor_id"`
	RequestAmount   money.Kobo  `db:"request_amount" json:"request_amount_kobo"`
	ApprovedAmount  *money.Kobo `db:"approved_amount" json:"approved_amount_kobo,omitempty"`
	Status          string      `db:"status" json:"status"`
	AccountName     string      `db:"account_name" json:"account_name"`
	AccountNumber   string      `db:"account_number" json:"account_number"`
	BankName        string      `db:"bank_name" json:"bank_name"`
	RejectionReason *string     `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	ProcessedAt     *time.Time  `db:"processed_at" json:"processed_at,omitempty"`
}

// VendorBalance tracks a vendor's withdrawable earnings.
type VendorBalance struct {
	VendorID  uuid.UUID  `db:"vendor_id" json:"vendor_id"`
	Available money.Kobo `db:"available" json:"available_kobo"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
