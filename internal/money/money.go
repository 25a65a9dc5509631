// Package money holds the currency primitives shared by the calculation engine.
// Amounts are plain float64 dollars; rounding goes through decimal to avoid
// binary artifacts such as 0.1+0.2.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Safe coerces NaN and infinities to zero.
func Safe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafePtr returns the finite value behind p, or zero when p is nil.
func SafePtr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return Safe(*p)
}

// Round rounds to whole cents, half away from zero.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(Safe(v)).Round(2).Float64()
	return f
}

// IsCents reports whether v has no more than two decimal places.
func IsCents(v float64) bool {
	d := decimal.NewFromFloat(Safe(v))
	return d.Equal(d.Round(2))
}

// Sum rounds each finite value of vs to cents and adds them. Rounding the
// terms rather than the total keeps sums additive: the sum of per-day sums
// equals the sum over every entry.
func Sum(vs ...float64) float64 {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(decimal.NewFromFloat(Safe(v)).Round(2))
	}
	f, _ := total.Float64()
	return f
}

// Ratio returns num/den, or nil when den is not a positive finite number.
func Ratio(num, den float64) *float64 {
	den = Safe(den)
	if den <= 0 {
		return nil
	}
	r := Safe(num) / den
	return &r
}

// NonNegative clamps v at zero.
func NonNegative(v float64) float64 {
	return math.Max(Safe(v), 0)
}
