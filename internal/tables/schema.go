package tables

// Column names of the source tables.
const (
	ColOrderID           = "order_id"
	ColCustomerID        = "customer_id"
	ColPurchaseTimestamp = "order_purchase_timestamp"
	ColOrderStatus       = "order_status"
	ColDeliveredDate     = "order_delivered_customer_date"

	ColOrderItemID  = "order_item_id"
	ColProductID    = "product_id"
	ColPrice        = "price"
	ColFreightValue = "freight_value"

	ColCategoryName = "product_category_name"

	ColCustomerState = "customer_state"
	ColCustomerCity  = "customer_city"

	ColReviewID        = "review_id"
	ColReviewScore     = "review_score"
	ColReviewCreatedAt = "review_creation_date"
)

// requiredColumns are the columns each table must expose.
var requiredColumns = map[string][]string{
	Orders:     {ColOrderID, ColCustomerID, ColPurchaseTimestamp, ColOrderStatus, ColDeliveredDate},
	OrderItems: {ColOrderID, ColProductID, ColPrice},
	Products:   {ColProductID, ColCategoryName},
	Customers:  {ColCustomerID, ColCustomerState},
	Reviews:    {ColOrderID, ColReviewScore},
}

// optionalColumns are read when present.
var optionalColumns = map[string][]string{
	OrderItems: {ColOrderItemID, ColFreightValue},
	Customers:  {ColCustomerCity},
	Reviews:    {ColReviewID, ColReviewCreatedAt},
}

// RequiredColumns returns the columns a table must expose.
func RequiredColumns(table string) []string {
	return append([]string(nil), requiredColumns[table]...)
}

// Columns returns the required and optional columns of a table, which is
// what loaders should select from sources with a fixed schema.
func Columns(table string) []string {
	return append(RequiredColumns(table), optionalColumns[table]...)
}
