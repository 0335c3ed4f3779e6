package money_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/money"
)

func TestFromFloat(t *testing.T) {
	d := money.FromFloat(100.555)
	// Rounds to 2 decimal places
	assert.True(t, d.Equal(dec.NewFromFloat(100.56)))
}

func TestFromString(t *testing.T) {
	d, err := money.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = money.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := money.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		money.MustFromString("invalid")
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "100.00", money.Format(dec.NewFromInt(100)))
	assert.Equal(t, "0.50", money.Format(dec.RequireFromString("0.5")))
	assert.Equal(t, "246.00", money.Format(dec.RequireFromString("246")))
}

func TestTax(t *testing.T) {
	tests := []struct {
		net      string
		rate     int
		expected string
	}{
		{"100.00", 23, "23.00"},
		{"100.00", 0, "0"},
		{"99.99", 23, "23.00"},   // 22.9977 rounds up
		{"0.01", 23, "0.00"},     // 0.0023 rounds down
		{"149.50", 8, "11.96"},   // 11.96 exact
		{"10.50", 5, "0.53"},     // 0.525 rounds half up
	}

	for _, tt := range tests {
		got := money.Tax(money.MustFromString(tt.net), tt.rate)
		assert.True(t, got.Equal(money.MustFromString(tt.expected)),
			"Tax(%s, %d) = %s, want %s", tt.net, tt.rate, got, tt.expected)
	}
}

func TestTimes(t *testing.T) {
	got := money.Times(money.MustFromString("123.00"), dec.NewFromInt(2))
	assert.Equal(t, "246.00", money.Format(got))

	// Fractional quantity still rounds to 2 places
	got = money.Times(money.MustFromString("10.33"), money.MustFromString("1.5"))
	assert.Equal(t, "15.50", money.Format(got)) // 15.495 rounds half up
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		money.MustFromString("200.00"),
		money.MustFromString("46.00"),
		money.MustFromString("0.01"),
	}
	assert.Equal(t, "246.01", money.Format(money.Sum(values)))

	assert.True(t, money.Sum(nil).IsZero())
}

func TestRoundBeforeMultiplyMatters(t *testing.T) {
	// The invariant the whole derivation chain relies on: unit-level
	// rounding happens before multiplication by quantity.
	unitNet := money.MustFromString("33.33")
	unitTax := money.Tax(unitNet, 23) // 7.6659 -> 7.67
	qty := dec.NewFromInt(3)

	lineTax := money.Times(unitTax, qty)
	assert.Equal(t, "23.01", money.Format(lineTax))

	// Multiplying first would have produced 23.00
	naive := money.Round(unitNet.Mul(dec.NewFromInt(23)).Div(dec.NewFromInt(100)).Mul(qty))
	assert.Equal(t, "23.00", money.Format(naive))
}

func TestPredicates(t *testing.T) {
	assert.True(t, money.IsPositive(money.MustFromString("0.01")))
	assert.False(t, money.IsPositive(money.Zero))
	assert.True(t, money.IsNonNegative(money.Zero))
	assert.False(t, money.IsNonNegative(money.MustFromString("-0.01")))
}
