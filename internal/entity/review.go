package entity

import "time"

// Review represents the reviews table
type Review struct {
	ReviewID  string     `db:"review_id"`
	OrderID   string     `db:"order_id"`
	Score     *int       `db:"review_score"`
	CreatedAt *time.Time `db:"review_creation_date"`
}

// NewerThan reports whether r should replace other as the review kept for
// an order: a dated review beats an undated one, a later date beats an
// earlier one, and ties keep other.
func (r *Review) NewerThan(other *Review) bool {
	switch {
	case r.CreatedAt == nil:
		return false
	case other.CreatedAt == nil:
		return true
	default:
		return r.CreatedAt.After(*other.CreatedAt)
	}
}
