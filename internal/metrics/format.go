package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)

	printer = message.NewPrinter(language.English)
)

// FormatCurrency renders a dollar amount with M/K suffixes:
// $1.2M, $12K, $999.
func FormatCurrency(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(million):
		return "$" + v.Div(million).StringFixed(1) + "M"
	case v.GreaterThanOrEqual(thousand):
		return "$" + v.Div(thousand).StringFixed(0) + "K"
	default:
		return "$" + v.StringFixed(0)
	}
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatTrend renders a signed percentage with two decimals, e.g. +2.50%.
func FormatTrend(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatDays renders a mean delivery time, e.g. 5.3 days.
func FormatDays(days float64) string {
	return fmt.Sprintf("%.1f days", days)
}

// FormatScore renders a mean review score out of five.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f/5.0 %s", score, strings.Repeat("⭐", Stars(score)))
}

// Stars is the score rounded to whole stars.
func Stars(score float64) int {
	if score <= 0 || math.IsNaN(score) {
		return 0
	}
	return int(math.RoundToEven(score))
}
