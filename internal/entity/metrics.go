package entity

import (
	"fmt"
	"time"

	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/shopspring/decimal"
)

// DateWindow is an inclusive range of calendar dates. Only the year, month
// and day of From and To are significant.
type DateWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewDateWindow builds a window from two dates, truncating both to midnight UTC.
func NewDateWindow(from, to time.Time) DateWindow {
	return DateWindow{From: dateOf(from), To: dateOf(to)}
}

// Validate returns ErrInvalidDateRange for a zero or inverted window.
func (w DateWindow) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return fmt.Errorf("%w: both bounds are required", gerr.ErrInvalidDateRange)
	}
	if dateOf(w.From).After(dateOf(w.To)) {
		return fmt.Errorf("%w: from %s is after to %s", gerr.ErrInvalidDateRange,
			w.From.Format(time.DateOnly), w.To.Format(time.DateOnly))
	}
	return nil
}

// Contains reports whether the calendar date of t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(dateOf(w.From)) && !d.After(dateOf(w.To))
}

// PreviousYear returns the same month/day window one year earlier.
// February 29 clamps to February 28.
func (w DateWindow) PreviousYear() DateWindow {
	return DateWindow{From: sameDayYearBefore(w.From), To: sameDayYearBefore(w.To)}
}

// Key is a stable string form of the window used for memoization.
func (w DateWindow) Key() string {
	return w.From.Format(time.DateOnly) + ".." + w.To.Format(time.DateOnly)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDayYearBefore(t time.Time) time.Time {
	day := t.Day()
	if t.Month() == time.February && day == 29 {
		day = 28
	}
	return time.Date(t.Year()-1, t.Month(), day, 0, 0, 0, 0, time.UTC)
}

type MetricWithComparison struct {
	Value          decimal.Decimal  `json:"value"`
	Formatted      string           `json:"formatted"`
	CompareValue   *decimal.Decimal `json:"compare_value,omitempty"`
	ChangePct      *float64         `json:"change_pct,omitempty"`
	ChangePctLabel string           `json:"change_pct_label,omitempty"`
}

// MonthlyRevenue is one point of the monthly revenue series. Period is the
// calendar month in YYYY-MM form.
type MonthlyRevenue struct {
	Period  string          `json:"period"`
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type CategoryMetric struct {
	CategoryName string          `json:"category"`
	Value        decimal.Decimal `json:"revenue"`
	Formatted    string          `json:"formatted"`
}

type StateMetric struct {
	State string          `json:"state"`
	Value decimal.Decimal `json:"revenue"`
}

// DeliverySatisfaction is the mean review score of rows in a delivery bucket.
type DeliverySatisfaction struct {
	Bucket   DeliveryBucket `json:"bucket"`
	AvgScore float64        `json:"avg_score"`
	Scored   int            `json:"scored"`
}

// DeliveryTimeMetric is the mean delivery time of the current window compared
// to the previous one. Value is nil when no row in the window was delivered.
type DeliveryTimeMetric struct {
	Value          *float64 `json:"value"`
	Formatted      string   `json:"formatted"`
	CompareValue   *float64 `json:"compare_value,omitempty"`
	ChangePct      float64  `json:"change_pct"`
	ChangePctLabel string   `json:"change_pct_label"`
}

// ReviewScoreMetric is the mean review score of the current window. Value
// is nil when no row in the window has a score.
type ReviewScoreMetric struct {
	Value     *float64 `json:"value"`
	Formatted string   `json:"formatted"`
	Stars     int      `json:"stars"`
}

// BusinessMetrics contains all computed metrics for a reporting window and
// the same window one year earlier.
type BusinessMetrics struct {
	Period        DateWindow  `json:"period"`
	ComparePeriod DateWindow  `json:"compare_period"`
	Status        OrderStatus `json:"status"`
	SnapshotID    string      `json:"snapshot_id"`

	Revenue       MetricWithComparison `json:"revenue"`
	MonthlyGrowth MetricWithComparison `json:"monthly_growth"`
	AvgOrderValue MetricWithComparison `json:"avg_order_value"`
	OrdersCount   MetricWithComparison `json:"orders_count"`

	RevenueByMonth        []MonthlyRevenue       `json:"revenue_by_month"`
	RevenueByMonthCompare []MonthlyRevenue       `json:"revenue_by_month_compare"`
	TopCategories         []CategoryMetric       `json:"top_categories"`
	RevenueByState        []StateMetric          `json:"revenue_by_state"`
	SatisfactionByBucket  []DeliverySatisfaction `json:"satisfaction_by_delivery"`

	AvgDeliveryTime DeliveryTimeMetric `json:"avg_delivery_time"`
	AvgReviewScore  ReviewScoreMetric  `json:"avg_review_score"`
}

// ReportRequest selects the window and order status of a dashboard report.
type ReportRequest struct {
	Window DateWindow
	Status OrderStatus
}

// FactsRequest selects fact rows by purchase year and order status. A nil
// Window returns the whole year.
type FactsRequest struct {
	Year   int
	Status OrderStatus
	Window *DateWindow
}
