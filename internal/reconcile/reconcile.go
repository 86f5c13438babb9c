// Package reconcile holds the pure payout reconciliation rules: computing a
// vendor's hold-adjusted available amount and classifying refund exposure.
// Nothing here touches storage; callers feed it amounts they already loaded.
package reconcile

import (
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

// RiskLevel buckets a vendor's pending-refund exposure relative to a
// requested payout.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Exposure thresholds. Counts compare with strict >, percentages likewise:
// exactly 30% of the request is medium, not high.
const (
	highRefundCount   = 5
	mediumRefundCount = 2
)

// AvailableForPayout returns the amount that can actually be disbursed for a
// request once active holds are subtracted, floored at zero.
func AvailableForPayout(requestAmount, activeHoldAmount money.Kobo) money.Kobo {
	if activeHoldAmount >= requestAmount {
		return 0
	}
	return requestAmount - activeHoldAmount
}

// ClassifyRisk buckets a vendor's pending refund exposure.
//
// A zero request amount makes the percentage comparisons meaningless, so it
// is treated as high risk whenever any refund amount is pending and low
// otherwise.
func ClassifyRisk(pendingRefundCount int, pendingRefundAmount, requestAmount money.Kobo) RiskLevel {
	if requestAmount == 0 {
		if pendingRefundAmount > 0 {
			return RiskHigh
		}
		return RiskLow
	}

	// Integer cross-multiplication keeps the 30%/10% comparisons exact.
	if pendingRefundCount > highRefundCount || 10*pendingRefundAmount > 3*requestAmount {
		return RiskHigh
	}
	if pendingRefundCount > mediumRefundCount || 10*pendingRefundAmount > requestAmount {
		return RiskMedium
	}
	return RiskLow
}

// RefundImpact is the derived per-vendor snapshot combining pending refund
// exposure, active holds and the hold-adjusted available amount. It is
// recomputed on demand and never persisted.
type RefundImpact struct {
	PendingRefunds      int             `json:"pending_refunds"`
	PendingRefundAmount money.Kobo      `json:"pending_refund_amount_kobo"`
	HoldAmount          money.Kobo      `json:"hold_amount_kobo"`
	AvailableForPayout  money.Kobo      `json:"available_for_payout_kobo"`
	RiskLevel           RiskLevel       `json:"risk_level"`
}

// BuildRefundImpact assembles the snapshot for one vendor and one requested
// payout amount.
func BuildRefundImpact(pendingRefundCount int, pendingRefundAmount, holdAmount, requestAmount money.Kobo) RefundImpact {
	return RefundImpact{
		PendingRefunds:      pendingRefundCount,
		PendingRefundAmount: pendingRefundAmount,
		HoldAmount:          holdAmount,
		AvailableForPayout:  AvailableForPayout(requestAmount, holdAmount),
		RiskLevel:           ClassifyRisk(pendingRefundCount, pendingRefundAmount, requestAmount),
	}
}
