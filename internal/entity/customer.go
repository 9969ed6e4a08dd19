package entity

// Customer represents the customers table
type Customer struct {
	CustomerID string  `db:"customer_id"`
	State      *string `db:"customer_state"`
	City       *string `db:"customer_city"`
}
