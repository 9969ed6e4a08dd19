// Package salesfact joins the raw tables into the denormalized sales-fact view.
package salesfact

import (
	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
)

// Builder builds fact rows from a single snapshot.
type Builder struct {
	rs *tables.RawTableSet
}

// New creates a builder over a snapshot.
func New(rs *tables.RawTableSet) *Builder {
	return &Builder{rs: rs}
}

// Build returns one fact row per order item whose order has the given status
// and was purchased in the given year, in order_items order.
//
// Items inner-join orders: an item whose order is missing is dropped.
// Products, customers and reviews are left-joined: a missing match leaves
// the corresponding field nil. Build never mutates the snapshot and returns
// equal output for equal arguments.
func (b *Builder) Build(year int, status entity.OrderStatus) []entity.SalesFactRow {
	rows := make([]entity.SalesFactRow, 0)
	for i := range b.rs.OrderItems {
		item := &b.rs.OrderItems[i]
		order, ok := b.rs.Order(item.OrderID)
		if !ok {
			continue
		}
		if order.Status != status || order.PurchaseTimestamp.Year() != year {
			continue
		}
		rows = append(rows, b.row(item, order))
	}
	return rows
}

func (b *Builder) row(item *entity.OrderItem, order *entity.Order) entity.SalesFactRow {
	r := entity.SalesFactRow{
		OrderID:           item.OrderID,
		OrderItemID:       item.OrderItemID,
		ProductID:         item.ProductID,
		PurchaseTimestamp: order.PurchaseTimestamp,
		Status:            order.Status,
		Price:             item.Price,
		FreightValue:      item.FreightValue,
		DeliveryDays:      order.DeliveryDays(),
	}
	if p, ok := b.rs.Product(item.ProductID); ok && p.CategoryName != nil {
		r.ProductCategoryName = ptr(*p.CategoryName)
	}
	if c, ok := b.rs.Customer(order.CustomerID); ok && c.State != nil {
		r.CustomerState = ptr(*c.State)
	}
	if rv, ok := b.rs.ReviewForOrder(order.OrderID); ok && rv.Score != nil {
		r.ReviewScore = ptr(*rv.Score)
	}
	return r
}

// FilterWindow returns the rows whose purchase date falls inside the window.
// The window is not validated; an inverted window yields no rows.
func FilterWindow(rows []entity.SalesFactRow, w entity.DateWindow) []entity.SalesFactRow {
	out := make([]entity.SalesFactRow, 0, len(rows))
	for _, r := range rows {
		if w.Contains(r.PurchaseTimestamp) {
			out = append(out, r)
		}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
