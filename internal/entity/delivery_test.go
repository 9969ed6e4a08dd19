package entity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeDelivery(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		days *float64
		want DeliveryBucket
	}{
		{nil, DeliveryBucketUnknown},
		{f(math.NaN()), DeliveryBucketUnknown},
		{f(0), DeliveryBucketFast},
		{f(3), DeliveryBucketFast},
		{f(3.01), DeliveryBucketStandard},
		{f(7), DeliveryBucketStandard},
		{f(7.5), DeliveryBucketSlow},
		{f(120), DeliveryBucketSlow},
		{f(-2), DeliveryBucketFast},
	}
	for _, tt := range tests {
		got := CategorizeDelivery(tt.days)
		assert.Equal(t, tt.want, got)
	}
}

func TestCategorizeDeliveryMonotonic(t *testing.T) {
	prev := DeliveryBucketFast
	for d := 0.0; d <= 30; d += 0.25 {
		b := CategorizeDelivery(&d)
		assert.GreaterOrEqual(t, b, prev, "days %v", d)
		assert.NotEqual(t, DeliveryBucketUnknown, b)
		prev = b
	}
}

func TestDeliveryBucketLabels(t *testing.T) {
	var labels []string
	for _, b := range DeliveryBuckets() {
		labels = append(labels, b.String())
	}
	assert.Equal(t, []string{"1-3 days", "4-7 days", "8+ days", "Unknown"}, labels)

	bs, err := json.Marshal(DeliveryBucketSlow)
	require.NoError(t, err)
	assert.Equal(t, `"8+ days"`, string(bs))

	var b DeliveryBucket
	require.NoError(t, json.Unmarshal([]byte(`"4-7 days"`), &b))
	assert.Equal(t, DeliveryBucketStandard, b)
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &b))
}
