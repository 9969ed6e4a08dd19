package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesFactRow is one order item with the attributes of its order, product,
// customer and review joined in. Rows are built per query and never mutated.
type SalesFactRow struct {
	OrderID             string          `json:"order_id"`
	OrderItemID         int             `json:"order_item_id"`
	ProductID           string          `json:"product_id"`
	PurchaseTimestamp   time.Time       `json:"order_purchase_timestamp"`
	Status              OrderStatus     `json:"order_status"`
	Price               decimal.Decimal `json:"price"`
	FreightValue        decimal.Decimal `json:"freight_value"`
	ProductCategoryName *string         `json:"product_category_name"`
	CustomerState       *string         `json:"customer_state"`
	DeliveryDays        *float64        `json:"delivery_days"`
	ReviewScore         *int            `json:"review_score"`
}

// DeliveryBucket categorizes the row's delivery time.
func (r *SalesFactRow) DeliveryBucket() DeliveryBucket {
	return CategorizeDelivery(r.DeliveryDays)
}
