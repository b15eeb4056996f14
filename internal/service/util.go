package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// redondear2 rounds a percentage or score for presentation. Internal
// computations stay at full precision; this is applied only when filling DTOs.
func redondear2(x float64) float64 {
	return math.Round(x*100) / 100
}

// clip limits x to [min, max].
func clip(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// pctDecimal computes num/den×100 as float64, 0 on zero denominator.
func pctDecimal(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	f, _ := num.Div(den).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// pct computes num/den×100, 0 on zero denominator.
func pct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
