package dto

import (
	"github.com/google/uuid"

	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// LoginRequest carries admin/vendor credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreatePayoutRequest is a vendor's withdrawal ask. Amount is a decimal Naira
// string; it is converted to kobo at this boundary.
type CreatePayoutRequest struct {
	Amount        string `json:"amount" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
	BankName      string `json:"bank_name" binding:"required"`
}

// ParseAmount converts the decimal Naira amount into kobo.
func (r *CreatePayoutRequest) ParseAmount() (money.Kobo, error) {
	return money.ParseNaira(r.Amount)
}

// ApprovePayoutRequest controls the approval gate. Confirmed acknowledges a
// hold-adjusted amount below the requested one.
type ApprovePayoutRequest struct {
	Confirmed bool `json:"confirmed"`
}

// RejectPayoutRequest carries the mandatory rejection reason.
type RejectPayoutRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BulkPayoutRequest lists the payout ids of a bulk action; reject actions
// also carry the shared reason.
type BulkPayoutRequest struct {
	PayoutIDs []string `json:"payout_ids" binding:"required,min=1"`
	Reason    string   `json:"reason"`
}

// ParsePayoutIDs converts the string ids into UUIDs.
func (r *BulkPayoutRequest) ParsePayoutIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.PayoutIDs))
	for _, raw := range r.PayoutIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateHoldRequest places a hold against a vendor. Amount is decimal Naira.
type CreateHoldRequest struct {
	VendorID         string   `json:"vendor_id" binding:"required,uuid"`
	Amount           string   `json:"amount" binding:"required"`
	Reason           string   `json:"reason" binding:"required"`
	RefundRequestIDs []string `json:"refund_request_ids"`
}

// ParseAmount converts the decimal Naira amount into kobo.
func (r *CreateHoldRequest) ParseAmount() (money.Kobo, error) {
	return money.ParseNaira(r.Amount)
}

// ParseVendorID converts the vendor id into a UUID.
func (r *CreateHoldRequest) ParseVendorID() (uuid.UUID, error) {
	return uuid.Parse(r.VendorID)
}
