package entity

// Product represents the products table
type Product struct {
	ProductID    string  `db:"product_id"`
	CategoryName *string `db:"product_category_name"`
}
