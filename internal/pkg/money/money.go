// Package money carries all monetary amounts as int64 kobo (minor units of
// the Naira). Decimal Naira values exist only at the API boundary and are
// converted with shopspring/decimal, never with floating point.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kobo is an amount in minor currency units (1 Naira = 100 kobo).
type Kobo int64

var hundred = decimal.NewFromInt(100)

// ParseNaira converts a decimal Naira string ("1500.50") into kobo.
// Amounts with sub-kobo precision are rejected rather than rounded.
func ParseNaira(s string) (Kobo, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal Naira amount into kobo.
func FromDecimal(d decimal.Decimal) (Kobo, error) {
	k := d.Mul(hundred)
	if !k.IsInteger() {
		return 0, fmt.Errorf("money: amount %s has sub-kobo precision", d)
	}
	return Kobo(k.IntPart()), nil
}

// Naira returns the amount as a decimal Naira value.
func (k Kobo) Naira() decimal.Decimal {
	return decimal.NewFromInt(int64(k)).Div(hundred)
}

// String formats the amount as a plain decimal Naira string.
func (k Kobo) String() string {
	return k.Naira().StringFixed(2)
}
