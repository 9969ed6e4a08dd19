package entity

import (
	"testing"
	"time"

	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateWindowValidate(t *testing.T) {
	assert.NoError(t, NewDateWindow(date(2023, 1, 1), date(2023, 1, 1)).Validate())
	assert.ErrorIs(t, NewDateWindow(date(2023, 2, 1), date(2023, 1, 1)).Validate(), gerr.ErrInvalidDateRange)
	assert.ErrorIs(t, DateWindow{To: date(2023, 1, 1)}.Validate(), gerr.ErrInvalidDateRange)
}

func TestDateWindowContainsIsInclusive(t *testing.T) {
	w := NewDateWindow(date(2023, 1, 10), date(2023, 1, 20))
	assert.True(t, w.Contains(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2023, 1, 20, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2023, 1, 21, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2023, 1, 9, 23, 59, 59, 0, time.UTC)))
}

func TestDateWindowPreviousYear(t *testing.T) {
	w := NewDateWindow(date(2024, 2, 29), date(2024, 12, 31)).PreviousYear()
	assert.Equal(t, date(2023, 2, 28), w.From)
	assert.Equal(t, date(2023, 12, 31), w.To)
	assert.Equal(t, "2023-02-28..2023-12-31", w.Key())
}

func TestOrderDeliveryDays(t *testing.T) {
	delivered := time.Date(2023, 1, 4, 12, 0, 0, 0, time.UTC)
	o := Order{PurchaseTimestamp: date(2023, 1, 1), DeliveredTimestamp: &delivered, Status: OrderStatusCanceled}
	assert.InDelta(t, 3.5, *o.DeliveryDays(), 1e-9)

	o.DeliveredTimestamp = nil
	o.Status = OrderStatusDelivered
	assert.Nil(t, o.DeliveryDays())
}
