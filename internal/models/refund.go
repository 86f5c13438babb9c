package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// Refund request statuses.
const (
	RefundStatusPending  = "pending"
	RefundStatusApproved = "approved"
	RefundStatusRejected = "rejected"
)

// RefundRequest is a customer's claim against an order fulfilled by a vendor.
// Pending refunds feed the vendor's refund-impact view; this core only reads
// them.
type RefundRequest struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	OrderID    uuid.UUID  `db:"order_id" json:"order_id"`
	VendorID   uuid.UUID  `db:"vendor_id" json:"vendor_id"`
	CustomerID uuid.UUID  `db:"customer_id" json:"customer_id"`
	Amount     money.Kobo `db:"amount" json:"amount_kobo"`
	Reason     *string    `db:"reason" json:"reason,omitempty"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}
