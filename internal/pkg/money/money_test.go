package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNaira(t *testing.T) {
	tests := []struct {
		input    string
		expected Kobo
	}{
		{"1500.50", 150_050},
		{"1000", 100_000},
		{"0.01", 1},
		{"0", 0},
		{"-250.75", -25_075},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNaira(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseNaira_Invalid(t *testing.T) {
	_, err := ParseNaira("abc")
	assert.Error(t, err)

	_, err = ParseNaira("")
	assert.Error(t, err)
}

func TestParseNaira_SubKoboPrecision(t *testing.T) {
	_, err := ParseNaira("10.005")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sub-kobo")
}

func TestFromDecimal(t *testing.T) {
	got, err := FromDecimal(decimal.RequireFromString("99.99"))
	assert.NoError(t, err)
	assert.Equal(t, Kobo(9_999), got)
}

func TestKobo_Naira(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1500.50").Equal(Kobo(150_050).Naira()))
}

func TestKobo_String(t *testing.T) {
	assert.Equal(t, "1500.50", Kobo(150_050).String())
	assert.Equal(t, "0.01", Kobo(1).String())
	assert.Equal(t, "1000.00", Kobo(100_000).String())
}
