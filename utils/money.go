package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// CentEpsilon is the tolerance used for money equality. Amounts arrive as
// floats from JSON, so "fully paid" style comparisons must absorb anything
// smaller than one cent.
const CentEpsilon = 0.01

// RoundCents rounds a monetary value to two decimal places.
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ApproxEqual reports whether two monetary values differ by less than a cent.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) < CentEpsilon
}

// IsPositiveAmount reports whether v is a valid positive monetary amount.
func IsPositiveAmount(v float64) bool {
	return decimal.NewFromFloat(v).GreaterThan(decimal.Zero)
}
