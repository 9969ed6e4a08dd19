package entity

import (
	"fmt"
	"math"
)

// DeliveryBucket is an ordinal delivery-speed category. The zero value is
// the fastest bucket and the numeric order is the severity order.
type DeliveryBucket int

const (
	DeliveryBucketFast DeliveryBucket = iota
	DeliveryBucketStandard
	DeliveryBucketSlow
	DeliveryBucketUnknown
)

var deliveryBucketLabels = [...]string{
	DeliveryBucketFast:     "1-3 days",
	DeliveryBucketStandard: "4-7 days",
	DeliveryBucketSlow:     "8+ days",
	DeliveryBucketUnknown:  "Unknown",
}

// DeliveryBuckets returns every bucket in severity order.
func DeliveryBuckets() []DeliveryBucket {
	return []DeliveryBucket{
		DeliveryBucketFast,
		DeliveryBucketStandard,
		DeliveryBucketSlow,
		DeliveryBucketUnknown,
	}
}

func (b DeliveryBucket) String() string {
	if b < DeliveryBucketFast || b > DeliveryBucketUnknown {
		return fmt.Sprintf("DeliveryBucket(%d)", int(b))
	}
	return deliveryBucketLabels[b]
}

func (b DeliveryBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *DeliveryBucket) UnmarshalText(text []byte) error {
	for _, db := range DeliveryBuckets() {
		if db.String() == string(text) {
			*b = db
			return nil
		}
	}
	return fmt.Errorf("unknown delivery bucket %q", string(text))
}

// CategorizeDelivery maps a delivery duration in days to its bucket.
// A nil or NaN duration is Unknown. Negative durations land in the fastest
// bucket.
func CategorizeDelivery(days *float64) DeliveryBucket {
	switch {
	case days == nil || math.IsNaN(*days):
		return DeliveryBucketUnknown
	case *days <= 3:
		return DeliveryBucketFast
	case *days <= 7:
		return DeliveryBucketStandard
	default:
		return DeliveryBucketSlow
	}
}
