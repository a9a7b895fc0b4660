package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	// 同一点は0
	assert.Equal(t, 0.0, Haversine(41.0082, 28.9784, 41.0082, 28.9784))

	// イスタンブール→アンカラはおよそ350km
	d := Haversine(41.0082, 28.9784, 39.9334, 32.8597)
	assert.InDelta(t, 350, d, 10)

	// 対称
	assert.Equal(t,
		Haversine(41.0082, 28.9784, 39.9334, 32.8597),
		Haversine(39.9334, 32.8597, 41.0082, 28.9784),
	)
}

func TestEstimatedMinutes(t *testing.T) {
	assert.Equal(t, 0, EstimatedMinutes(0))
	assert.Equal(t, 3, EstimatedMinutes(1))
	assert.Equal(t, 8, EstimatedMinutes(2.5)) // 7.5切り上げ
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryClose, Categorize(1.9))
	assert.Equal(t, CategoryClose, Categorize(2))
	assert.Equal(t, CategoryMedium, Categorize(4.5))
	assert.Equal(t, CategoryFar, Categorize(10))
	assert.Equal(t, CategoryVeryFar, Categorize(10.01))
}

func TestDeliveryEstimate(t *testing.T) {
	// Kadikoy→Besiktas 直線約6km
	est := DeliveryEstimate(29.0254, 40.9903, 29.0079, 41.0430)

	assert.InDelta(t, 6, est.StraightKm, 1)
	assert.InDelta(t, est.StraightKm*1.3, est.RoadKm, 0.01)
	assert.Equal(t, Categorize(est.RoadKm), est.Category)
	assert.Equal(t, EstimatedMinutes(est.RoadKm), est.EstimatedMinutes)

	// 決定的であること
	again := DeliveryEstimate(29.0254, 40.9903, 29.0079, 41.0430)
	assert.Equal(t, est, again)
}
