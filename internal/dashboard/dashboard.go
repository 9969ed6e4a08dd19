// Package dashboard assembles KPI reports for a date window against the same
// window one year earlier.
package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jekabolt/grbpwr-dashboard/internal/dependency"
	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/jekabolt/grbpwr-dashboard/internal/metrics"
	"github.com/jekabolt/grbpwr-dashboard/internal/salesfact"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"github.com/shopspring/decimal"
)

// Config holds report defaults.
type Config struct {
	DefaultStatus string `mapstructure:"default_status"`
	TopCategories int    `mapstructure:"top_categories"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		DefaultStatus: string(entity.OrderStatusDelivered),
		TopCategories: 10,
	}
}

// Service computes reports over the current snapshot and memoizes them per
// snapshot.
type Service struct {
	c         *Config
	snapshots dependency.Snapshots
	facts     *memo[[]entity.SalesFactRow]
	reports   *memo[*entity.BusinessMetrics]
}

var _ dependency.Dashboard = (*Service)(nil)

// New creates a dashboard service.
func New(c *Config, snapshots dependency.Snapshots) *Service {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.DefaultStatus == "" {
		c.DefaultStatus = string(entity.OrderStatusDelivered)
	}
	if c.TopCategories == 0 {
		c.TopCategories = 10
	}
	return &Service{
		c:         c,
		snapshots: snapshots,
		facts:     newMemo[[]entity.SalesFactRow](),
		reports:   newMemo[*entity.BusinessMetrics](),
	}
}

func (s *Service) status(st entity.OrderStatus) entity.OrderStatus {
	if st == "" {
		return entity.OrderStatus(s.c.DefaultStatus)
	}
	return st
}

// Report computes the dashboard for req.Window. Facts are built for the
// year the window starts in and the year before; the previous window is the
// same month/day range one year earlier.
func (s *Service) Report(ctx context.Context, req entity.ReportRequest) (*entity.BusinessMetrics, error) {
	if err := req.Window.Validate(); err != nil {
		return nil, err
	}
	rs, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	status := s.status(req.Status)
	key := req.Window.Key() + "|" + string(status)

	return s.reports.get(rs.ID, key, func() (*entity.BusinessMetrics, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.report(rs, req.Window, status), nil
	})
}

func (s *Service) report(rs *tables.RawTableSet, window entity.DateWindow, status entity.OrderStatus) *entity.BusinessMetrics {
	currentYear := window.From.Year()
	prevWindow := window.PreviousYear()

	current := salesfact.FilterWindow(s.yearFacts(rs, currentYear, status), window)
	previous := salesfact.FilterWindow(s.yearFacts(rs, currentYear-1, status), prevWindow)

	cur, prev := metrics.New(current), metrics.New(previous)

	m := &entity.BusinessMetrics{
		Period:        window,
		ComparePeriod: prevWindow,
		Status:        status,
		SnapshotID:    rs.ID,
	}

	rev, prevRev := cur.Revenue(), prev.Revenue()
	revTrend := metrics.TrendPercentage(rev, prevRev)
	m.Revenue = withComparison(rev, prevRev, revTrend, metrics.FormatCurrency(rev))
	m.MonthlyGrowth = entity.MetricWithComparison{
		Value:     decimal.NewFromFloat(revTrend),
		Formatted: metrics.FormatTrend(revTrend),
	}

	aov, prevAov := cur.AverageOrderValue(), prev.AverageOrderValue()
	m.AvgOrderValue = withComparison(aov, prevAov, metrics.TrendPercentage(aov, prevAov), metrics.FormatCurrency(aov))

	orders, prevOrders := cur.OrderCount(), prev.OrderCount()
	m.OrdersCount = withComparison(
		decimal.NewFromInt(int64(orders)),
		decimal.NewFromInt(int64(prevOrders)),
		metrics.TrendPercentageInt(orders, prevOrders),
		metrics.FormatCount(orders),
	)

	m.RevenueByMonth = cur.MonthlySeries()
	m.RevenueByMonthCompare = prev.MonthlySeries()
	m.TopCategories = cur.CategoryRanking(s.c.TopCategories)
	m.RevenueByState = cur.StateRanking()
	m.SatisfactionByBucket = cur.SatisfactionByDeliveryBucket()

	m.AvgDeliveryTime = deliveryTime(cur, prev)
	m.AvgReviewScore = reviewScore(cur)
	return m
}

func withComparison(v, prev decimal.Decimal, trend float64, formatted string) entity.MetricWithComparison {
	return entity.MetricWithComparison{
		Value:          v,
		Formatted:      formatted,
		CompareValue:   &prev,
		ChangePct:      &trend,
		ChangePctLabel: metrics.FormatTrend(trend),
	}
}

// deliveryTime compares mean delivery days. When the previous window has no
// delivered rows the current mean stands in for it, giving a 0% trend.
func deliveryTime(cur, prev *metrics.Calculator) entity.DeliveryTimeMetric {
	var dt entity.DeliveryTimeMetric
	avg, ok := cur.AverageDeliveryDays()
	if !ok {
		dt.Formatted = "N/A"
		dt.ChangePctLabel = metrics.FormatTrend(0)
		return dt
	}
	dt.Value = &avg
	dt.Formatted = metrics.FormatDays(avg)

	prevAvg, ok := prev.AverageDeliveryDays()
	if !ok {
		prevAvg = avg
	}
	dt.CompareValue = &prevAvg
	dt.ChangePct = metrics.TrendPercentageFloat(avg, prevAvg)
	dt.ChangePctLabel = metrics.FormatTrend(dt.ChangePct)
	return dt
}

func reviewScore(cur *metrics.Calculator) entity.ReviewScoreMetric {
	avg, ok := cur.AverageReviewScore()
	if !ok {
		return entity.ReviewScoreMetric{Formatted: "N/A"}
	}
	return entity.ReviewScoreMetric{
		Value:     &avg,
		Formatted: metrics.FormatScore(avg),
		Stars:     metrics.Stars(avg),
	}
}

func (s *Service) yearFacts(rs *tables.RawTableSet, year int, status entity.OrderStatus) []entity.SalesFactRow {
	rows, _ := s.facts.get(rs.ID, strconv.Itoa(year)+"|"+string(status), func() ([]entity.SalesFactRow, error) {
		return salesfact.New(rs).Build(year, status), nil
	})
	return rows
}

// Facts returns the fact rows for a year and status, narrowed to req.Window
// when set. The slice is the caller's own but the rows' pointer fields are
// shared with memoized results and must not be written through.
func (s *Service) Facts(ctx context.Context, req entity.FactsRequest) ([]entity.SalesFactRow, error) {
	if req.Window != nil {
		if err := req.Window.Validate(); err != nil {
			return nil, err
		}
	}
	if req.Year <= 0 {
		return nil, fmt.Errorf("%w: year %d", gerr.ErrInvalidDateRange, req.Year)
	}
	rs, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	rows := s.yearFacts(rs, req.Year, s.status(req.Status))
	if req.Window != nil {
		return salesfact.FilterWindow(rows, *req.Window), nil
	}
	return append([]entity.SalesFactRow(nil), rows...), nil
}

// DateRange returns the purchase-date range of the current snapshot.
func (s *Service) DateRange(ctx context.Context) (entity.DateWindow, error) {
	rs, err := s.snapshots.Current()
	if err != nil {
		return entity.DateWindow{}, err
	}
	w, ok := rs.DateRange()
	if !ok {
		return entity.DateWindow{}, fmt.Errorf("%w: snapshot %s has no orders", gerr.ErrInvalidDateRange, rs.ID)
	}
	return w, nil
}

// Refresh reloads the snapshot and drops every memoized result.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	rs, err := s.snapshots.Refresh(ctx)
	if err != nil {
		return "", err
	}
	s.facts.purge()
	s.reports.purge()
	return rs.ID, nil
}
