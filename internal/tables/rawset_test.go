package tables

import (
	"errors"
	"testing"
	"time"

	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRaw() Raw {
	orders := NewTable(Orders, []string{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_delivered_customer_date"})
	orders.Append([]string{"o1", "c1", "delivered", "2023-01-10 10:00:00", "2023-01-12 10:00:00"})
	orders.Append([]string{"o2", "c2", "Shipped", "2022-06-01 08:30:00", ""})

	items := NewTable(OrderItems, []string{"order_id", "order_item_id", "product_id", "price", "freight_value"})
	items.Append([]string{"o1", "1", "p1", "10.50", "1.20"})
	items.Append([]string{"o2", "1", "p2", "20", ""})

	products := NewTable(Products, []string{"product_id", "product_category_name"})
	products.Append([]string{"p1", "toys"})
	products.Append([]string{"p2", ""})

	customers := NewTable(Customers, []string{"customer_id", "customer_state"})
	customers.Append([]string{"c1", "SP"})

	reviews := NewTable(Reviews, []string{"review_id", "order_id", "review_score", "review_creation_date"})
	reviews.Append([]string{"r1", "o1", "3", "2023-01-13 00:00:00"})
	reviews.Append([]string{"r2", "o1", "5.0", "2023-01-15 00:00:00"})
	reviews.Append([]string{"r3", "o1", "1", ""})
	reviews.Append([]string{"r4", "o2", "", ""})

	return Raw{
		Orders:     orders,
		OrderItems: items,
		Products:   products,
		Customers:  customers,
		Reviews:    reviews,
	}
}

func TestNewRawTableSet(t *testing.T) {
	rs, err := NewRawTableSet(testRaw())
	require.NoError(t, err)

	assert.NotEmpty(t, rs.ID)
	assert.Len(t, rs.Orders, 2)
	assert.Len(t, rs.OrderItems, 2)

	o, ok := rs.Order("o1")
	require.True(t, ok)
	assert.Equal(t, "c1", o.CustomerID)
	require.NotNil(t, o.DeliveredTimestamp)
	assert.InDelta(t, 2.0, *o.DeliveryDays(), 1e-9)

	o2, ok := rs.Order("o2")
	require.True(t, ok)
	assert.Equal(t, "shipped", o2.Status.String())
	assert.Nil(t, o2.DeliveredTimestamp)
	assert.Nil(t, o2.DeliveryDays())

	assert.True(t, rs.OrderItems[0].Price.Equal(decimal.RequireFromString("10.50")))
	assert.True(t, rs.OrderItems[1].FreightValue.IsZero())

	p, ok := rs.Product("p2")
	require.True(t, ok)
	assert.Nil(t, p.CategoryName)

	_, ok = rs.Customer("c2")
	assert.False(t, ok)
}

func TestReviewForOrderPicksMostRecent(t *testing.T) {
	rs, err := NewRawTableSet(testRaw())
	require.NoError(t, err)

	r, ok := rs.ReviewForOrder("o1")
	require.True(t, ok)
	assert.Equal(t, "r2", r.ReviewID)
	require.NotNil(t, r.Score)
	assert.Equal(t, 5, *r.Score)

	r, ok = rs.ReviewForOrder("o2")
	require.True(t, ok)
	assert.Nil(t, r.Score)

	_, ok = rs.ReviewForOrder("missing")
	assert.False(t, ok)
}

func TestNewRawTableSetSchemaError(t *testing.T) {
	raw := testRaw()
	raw[OrderItems] = NewTable(OrderItems, []string{"order_id", "product_id"})

	_, err := NewRawTableSet(raw)
	require.Error(t, err)

	var se *gerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, OrderItems, se.Table)
	assert.Equal(t, []string{"price"}, se.Missing)
}

func TestNewRawTableSetMissingTable(t *testing.T) {
	raw := testRaw()
	delete(raw, Reviews)

	_, err := NewRawTableSet(raw)
	assert.True(t, gerr.IsSchemaError(err))
}

func TestNewRawTableSetMalformedValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Raw)
	}{
		{"bad price", func(r Raw) { r[OrderItems].Rows[0][3] = "ten" }},
		{"negative price", func(r Raw) { r[OrderItems].Rows[0][3] = "-1" }},
		{"bad timestamp", func(r Raw) { r[Orders].Rows[0][3] = "yesterday" }},
		{"missing purchase timestamp", func(r Raw) { r[Orders].Rows[0][3] = "" }},
		{"score out of range", func(r Raw) { r[Reviews].Rows[0][2] = "7" }},
		{"fractional score", func(r Raw) { r[Reviews].Rows[0][2] = "4.5" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := testRaw()
			tt.mutate(raw)
			_, err := NewRawTableSet(raw)
			assert.ErrorIs(t, err, gerr.ErrMalformedValue)
		})
	}
}

func TestDateRange(t *testing.T) {
	rs, err := NewRawTableSet(testRaw())
	require.NoError(t, err)

	w, ok := rs.DateRange()
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), w.To)
}

func TestTableRequire(t *testing.T) {
	tbl := NewTable("t", []string{"a", "b"})
	assert.NoError(t, tbl.Require("a", "b"))

	err := tbl.Require("a", "c", "d", "c")
	var se *gerr.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"c", "d"}, se.Missing)
	assert.Contains(t, err.Error(), `table "t" is missing columns [c, d]`)
}

func TestTableAppendPadsShortRows(t *testing.T) {
	tbl := NewTable("t", []string{"a", "b", "c"})
	tbl.Append([]string{"1"})
	assert.Equal(t, "", tbl.Value(0, "c"))
	assert.Equal(t, "", tbl.Value(0, "missing"))
	assert.Equal(t, "1", tbl.Value(0, "a"))
}
