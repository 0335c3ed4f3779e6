// Package money provides decimal helpers for PLN invoice amounts.
//
// All monetary values carry exactly 2 fraction digits. Rounding is
// half-away-from-zero and is applied at every derivation step: unit
// amounts are rounded first, then multiplied by quantity and rounded
// again. Rounding-then-multiplying is not the same as
// multiplying-then-rounding, and invoice totals depend on the former.
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Round rounds to 2 decimal places, half away from zero
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat creates a 2-place decimal from a float
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromString parses a decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from string, panics on error.
// Intended for constants in tests and fixtures.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders a decimal with exactly 2 fraction digits
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Tax computes the tax amount for a net amount at an integer percentage
// rate: round(net * rate / 100, 2)
func Tax(net decimal.Decimal, ratePercent int) decimal.Decimal {
	if ratePercent == 0 {
		return Zero
	}
	rate := decimal.NewFromInt(int64(ratePercent))
	hundred := decimal.NewFromInt(100)
	return net.Mul(rate).Div(hundred).Round(2)
}

// Times multiplies a unit amount by a quantity, rounds to 2 places
func Times(unit, quantity decimal.Decimal) decimal.Decimal {
	return unit.Mul(quantity).Round(2)
}

// Sum sums a slice of decimals, rounds to 2 places
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result.Round(2)
}

// IsPositive returns true if d is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if d is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
