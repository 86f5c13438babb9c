package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zobamart/marketplace-backend/internal/pkg/money"
)

func TestAvailableForPayout(t *testing.T) {
	tests := []struct {
		name     string
		request  money.Kobo
		holds    money.Kobo
		expected money.Kobo
	}{
		{"no holds", 1_000_000, 0, 1_000_000},
		{"partial hold", 1_000_000, 300_000, 700_000},
		{"hold equals request", 1_000_000, 1_000_000, 0},
		{"hold exceeds request floors at zero", 1_000_000, 1_500_000, 0},
		{"zero request", 0, 500_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AvailableForPayout(tt.request, tt.holds))
		})
	}
}

func TestClassifyRisk(t *testing.T) {
	request := money.Kobo(1_000_000)

	tests := []struct {
		name     string
		count    int
		amount   money.Kobo
		request  money.Kobo
		expected RiskLevel
	}{
		{"no refunds", 0, 0, request, RiskLow},
		{"one small refund", 1, 50_000, request, RiskLow},
		{"count above medium threshold", 3, 0, request, RiskMedium},
		{"count at medium threshold stays low", 2, 0, request, RiskLow},
		{"count above high threshold", 6, 0, request, RiskHigh},
		{"count at high threshold stays medium", 5, 0, request, RiskMedium},
		{"amount above 30 percent", 0, 301_000, request, RiskHigh},
		{"amount exactly 30 percent stays medium", 0, 300_000, request, RiskMedium},
		{"amount above 10 percent", 0, 101_000, request, RiskMedium},
		{"amount exactly 10 percent stays low", 0, 100_000, request, RiskLow},
		{"zero request with pending amount", 2, 1, 0, RiskHigh},
		{"zero request without pending amount", 9, 0, 0, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyRisk(tt.count, tt.amount, tt.request))
		})
	}
}

func TestClassifyRisk_CountAndAmountIndependent(t *testing.T) {
	// Either trigger alone is enough for the bucket.
	assert.Equal(t, RiskHigh, ClassifyRisk(6, 0, 1_000_000))
	assert.Equal(t, RiskHigh, ClassifyRisk(0, 400_000, 1_000_000))
	assert.Equal(t, RiskMedium, ClassifyRisk(3, 50_000, 1_000_000))
}

func TestBuildRefundImpact(t *testing.T) {
	impact := BuildRefundImpact(3, 200_000, 150_000, 1_000_000)

	assert.Equal(t, 3, impact.PendingRefunds)
	assert.Equal(t, money.Kobo(200_000), impact.PendingRefundAmount)
	assert.Equal(t, money.Kobo(150_000), impact.HoldAmount)
	assert.Equal(t, money.Kobo(850_000), impact.AvailableForPayout)
	assert.Equal(t, RiskMedium, impact.RiskLevel)
}

func TestBuildRefundImpact_FullyHeld(t *testing.T) {
	impact := BuildRefundImpact(0, 0, 2_000_000, 1_000_000)

	assert.Equal(t, money.Kobo(0), impact.AvailableForPayout)
	assert.Equal(t, RiskLow, impact.RiskLevel)
}
