package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle status of an order as it appears in the
// source data. Unknown values are kept verbatim.
type OrderStatus string

func (os OrderStatus) String() string {
	return string(os)
}

const (
	OrderStatusCreated     OrderStatus = "created"
	OrderStatusApproved    OrderStatus = "approved"
	OrderStatusInvoiced    OrderStatus = "invoiced"
	OrderStatusProcessing  OrderStatus = "processing"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusCanceled    OrderStatus = "canceled"
	OrderStatusUnavailable OrderStatus = "unavailable"
)

// KnownOrderStatuses is a set of statuses the source data is known to carry.
var KnownOrderStatuses = map[OrderStatus]bool{
	OrderStatusCreated:     true,
	OrderStatusApproved:    true,
	OrderStatusInvoiced:    true,
	OrderStatusProcessing:  true,
	OrderStatusShipped:     true,
	OrderStatusDelivered:   true,
	OrderStatusCanceled:    true,
	OrderStatusUnavailable: true,
}

// Order represents the orders table
type Order struct {
	OrderID           string      `db:"order_id"`
	CustomerID        string      `db:"customer_id"`
	PurchaseTimestamp time.Time   `db:"order_purchase_timestamp"`
	Status            OrderStatus `db:"order_status"`
	// DeliveredTimestamp is nil until the order reaches the customer.
	DeliveredTimestamp *time.Time `db:"order_delivered_customer_date"`
}

// DeliveryDays returns the fractional number of days between purchase and
// delivery, or nil when the order has no delivery timestamp.
func (o *Order) DeliveryDays() *float64 {
	if o.DeliveredTimestamp == nil {
		return nil
	}
	d := o.DeliveredTimestamp.Sub(o.PurchaseTimestamp).Hours() / 24
	return &d
}

// OrderItem represents the order_items table
type OrderItem struct {
	OrderID      string          `db:"order_id"`
	OrderItemID  int             `db:"order_item_id"`
	ProductID    string          `db:"product_id"`
	Price        decimal.Decimal `db:"price"`
	FreightValue decimal.Decimal `db:"freight_value"`
}
