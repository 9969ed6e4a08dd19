// Package metrics computes KPI aggregates over sales-fact rows.
package metrics

import (
	"slices"
	"time"

	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Calculator aggregates a fact-row slice, usually one already narrowed to a
// date window. It never modifies the rows.
type Calculator struct {
	rows []entity.SalesFactRow
}

// New creates a calculator over rows.
func New(rows []entity.SalesFactRow) *Calculator {
	return &Calculator{rows: rows}
}

// Len returns the number of rows.
func (c *Calculator) Len() int {
	return len(c.rows)
}

// Revenue is the sum of item prices; zero for no rows.
func (c *Calculator) Revenue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range c.rows {
		total = total.Add(r.Price)
	}
	return total
}

// OrderCount is the number of distinct orders.
func (c *Calculator) OrderCount() int {
	seen := make(map[string]struct{}, len(c.rows))
	for _, r := range c.rows {
		seen[r.OrderID] = struct{}{}
	}
	return len(seen)
}

// AverageOrderValue is revenue per distinct order, or zero when there are
// no orders.
func (c *Calculator) AverageOrderValue() decimal.Decimal {
	n := c.OrderCount()
	if n == 0 {
		return decimal.Zero
	}
	return c.Revenue().Div(decimal.NewFromInt(int64(n)))
}

// MonthlySeries returns revenue per calendar month of purchase in
// chronological order. Months without rows are omitted.
func (c *Calculator) MonthlySeries() []entity.MonthlyRevenue {
	byMonth := make(map[time.Time]decimal.Decimal)
	for _, r := range c.rows {
		ts := r.PurchaseTimestamp
		m := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[m] = byMonth[m].Add(r.Price)
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	slices.SortFunc(months, func(a, b time.Time) int { return a.Compare(b) })

	series := make([]entity.MonthlyRevenue, 0, len(months))
	for _, m := range months {
		series = append(series, entity.MonthlyRevenue{
			Period:  m.Format("2006-01"),
			Month:   m,
			Revenue: byMonth[m],
		})
	}
	return series
}

// CategoryRanking returns revenue per product category, highest first,
// truncated to topN (no truncation when topN <= 0). Rows without a category
// are excluded. Equal revenues keep the order in which their categories
// first appear.
func (c *Calculator) CategoryRanking(topN int) []entity.CategoryMetric {
	groups := newGroups()
	for _, r := range c.rows {
		if r.ProductCategoryName == nil {
			continue
		}
		groups.add(*r.ProductCategoryName, r.Price)
	}

	ranking := make([]entity.CategoryMetric, 0, len(groups.keys))
	for _, k := range groups.keys {
		v := groups.sums[k]
		ranking = append(ranking, entity.CategoryMetric{
			CategoryName: k,
			Value:        v,
			Formatted:    FormatCurrency(v),
		})
	}
	slices.SortStableFunc(ranking, func(a, b entity.CategoryMetric) int {
		return b.Value.Cmp(a.Value)
	})
	if topN > 0 && len(ranking) > topN {
		ranking = ranking[:topN]
	}
	return ranking
}

// StateRanking returns revenue per customer state in first-seen order.
// Rows without a state are excluded. Consumers sort as they need.
func (c *Calculator) StateRanking() []entity.StateMetric {
	groups := newGroups()
	for _, r := range c.rows {
		if r.CustomerState == nil {
			continue
		}
		groups.add(*r.CustomerState, r.Price)
	}

	states := make([]entity.StateMetric, 0, len(groups.keys))
	for _, k := range groups.keys {
		states = append(states, entity.StateMetric{State: k, Value: groups.sums[k]})
	}
	return states
}

// SatisfactionByDeliveryBucket returns the mean review score per delivery
// bucket in severity order. Buckets without a scored row are omitted.
func (c *Calculator) SatisfactionByDeliveryBucket() []entity.DeliverySatisfaction {
	scores := make(map[entity.DeliveryBucket][]float64)
	for _, r := range c.rows {
		if r.ReviewScore == nil {
			continue
		}
		b := r.DeliveryBucket()
		scores[b] = append(scores[b], float64(*r.ReviewScore))
	}

	out := make([]entity.DeliverySatisfaction, 0, len(scores))
	for _, b := range entity.DeliveryBuckets() {
		s, ok := scores[b]
		if !ok {
			continue
		}
		out = append(out, entity.DeliverySatisfaction{
			Bucket:   b,
			AvgScore: stat.Mean(s, nil),
			Scored:   len(s),
		})
	}
	return out
}

// AverageDeliveryDays is the mean of non-nil delivery durations. ok is false
// when no row has one; that means "no data", not zero.
func (c *Calculator) AverageDeliveryDays() (avg float64, ok bool) {
	days := make([]float64, 0, len(c.rows))
	for _, r := range c.rows {
		if r.DeliveryDays != nil {
			days = append(days, *r.DeliveryDays)
		}
	}
	return mean(days)
}

// AverageReviewScore is the mean of non-nil review scores, with the same
// "no data" convention as AverageDeliveryDays.
func (c *Calculator) AverageReviewScore() (avg float64, ok bool) {
	scores := make([]float64, 0, len(c.rows))
	for _, r := range c.rows {
		if r.ReviewScore != nil {
			scores = append(scores, float64(*r.ReviewScore))
		}
	}
	return mean(scores)
}

func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	return stat.Mean(xs, nil), true
}

// groups sums prices per key and remembers first-seen key order.
type groups struct {
	keys []string
	sums map[string]decimal.Decimal
}

func newGroups() *groups {
	return &groups{sums: make(map[string]decimal.Decimal)}
}

func (g *groups) add(key string, v decimal.Decimal) {
	sum, ok := g.sums[key]
	if !ok {
		g.keys = append(g.keys, key)
	}
	g.sums[key] = sum.Add(v)
}
