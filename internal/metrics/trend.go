package metrics

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TrendPercentage is the relative change from previous to current in
// percent. A zero previous value yields 0 whatever current is, so growth
// from nothing reports as 0%.
func TrendPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	f, _ := current.Sub(previous).Div(previous).Mul(hundred).Float64()
	return f
}

// TrendPercentageFloat is TrendPercentage for plain float values such as
// mean delivery days.
func TrendPercentageFloat(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// TrendPercentageInt is TrendPercentage for counts.
func TrendPercentageInt(current, previous int) float64 {
	return TrendPercentageFloat(float64(current), float64(previous))
}
