package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manoj0277/agrirent-backend/models"
)

func TestBillableHours(t *testing.T) {
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		category models.Category
		duration time.Duration
		want     int
	}{
		{"drone 59 minutes bills one hour", models.CategoryDrone, 59 * time.Minute, 1},
		{"drone 61 minutes bills two hours", models.CategoryDrone, 61 * time.Minute, 2},
		{"drone sub-minute job bills one hour", models.CategoryDrone, 30 * time.Second, 1},
		{"drone exact two hours", models.CategoryDrone, 2 * time.Hour, 2},
		{"tractor 10 minutes bills the one-hour floor", models.CategoryTractor, 10 * time.Minute, 1},
		{"tractor 61 minutes bills two hours", models.CategoryTractor, 61 * time.Minute, 2},
		{"worker 8 hours", models.CategoryWorker, 8 * time.Hour, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BillableHours(tt.category, start, start.Add(tt.duration))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("zero duration is invalid", func(t *testing.T) {
		_, err := BillableHours(models.CategoryTractor, start, start)
		assert.True(t, errors.Is(err, ErrInvalidDuration))
	})

	t.Run("reversed interval is invalid", func(t *testing.T) {
		_, err := BillableHours(models.CategoryDrone, start, start.Add(-time.Hour))
		assert.True(t, errors.Is(err, ErrInvalidDuration))
	})

	t.Run("missing timestamps are invalid", func(t *testing.T) {
		_, err := BillableHours(models.CategoryDrone, time.Time{}, start)
		assert.True(t, errors.Is(err, ErrInvalidDuration))
	})
}

func TestFinalPrice(t *testing.T) {
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	item := &models.Item{
		ID:       "item-1",
		Category: models.CategoryTractor,
		Purposes: []models.PurposeRate{
			{Purpose: "Ploughing", Price: 800},
			{Purpose: "Sowing", Price: 650},
		},
		OperatorCharge: 200,
	}

	t.Run("purpose rate times hours plus distance", func(t *testing.T) {
		b := &models.Booking{
			ItemCategory:   models.CategoryTractor,
			WorkPurpose:    "Ploughing",
			WorkStartTime:  start,
			WorkEndTime:    start.Add(3 * time.Hour),
			DistanceCharge: 150,
		}
		price, err := FinalPrice(b, item)
		require.NoError(t, err)
		assert.Equal(t, 800.0*3+150, price)
	})

	t.Run("operator charge applies only when required", func(t *testing.T) {
		b := &models.Booking{
			ItemCategory:     models.CategoryTractor,
			WorkPurpose:      "Sowing",
			OperatorRequired: true,
			WorkStartTime:    start,
			WorkEndTime:      start.Add(2 * time.Hour),
		}
		price, err := FinalPrice(b, item)
		require.NoError(t, err)
		assert.Equal(t, (650.0+200)*2, price)
	})

	t.Run("unlisted purpose prices at zero rate", func(t *testing.T) {
		b := &models.Booking{
			ItemCategory:   models.CategoryTractor,
			WorkPurpose:    "Harvesting",
			WorkStartTime:  start,
			WorkEndTime:    start.Add(time.Hour),
			DistanceCharge: 100,
		}
		price, err := FinalPrice(b, item)
		require.NoError(t, err)
		assert.Equal(t, 100.0, price)
	})

	t.Run("invalid interval propagates", func(t *testing.T) {
		b := &models.Booking{ItemCategory: models.CategoryTractor, WorkStartTime: start, WorkEndTime: start}
		_, err := FinalPrice(b, item)
		assert.True(t, errors.Is(err, ErrInvalidDuration))
	})
}

func TestDistanceCharge(t *testing.T) {
	// Roughly 0.1 degrees of latitude is 11.1 km.
	origin := models.NewGeoPoint(17.3850, 78.4867)
	near := models.NewGeoPoint(17.3950, 78.4867)  // ~1.1 km away
	mid := models.NewGeoPoint(17.4650, 78.4867)   // ~8.9 km away
	far := models.NewGeoPoint(17.4850, 78.4867)   // ~11.1 km away
	veryFar := models.NewGeoPoint(17.5850, 78.4867) // ~22.2 km away

	t.Run("within default free radius", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceCharge(models.CategoryTractor, origin, near))
	})

	t.Run("beyond default free radius bills the excess", func(t *testing.T) {
		d := haversine(origin.Lat(), origin.Lng(), far.Lat(), far.Lng())
		want := (d - 3) * DistanceRatePerKm
		got := DistanceCharge(models.CategoryTractor, origin, far)
		assert.InDelta(t, want, got, 0.5)
		assert.Equal(t, got, float64(int64(got)), "charge is rounded to whole currency units")
	})

	t.Run("harvester free radius is wider", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceCharge(models.CategoryHarvester, origin, mid))
		assert.Greater(t, DistanceCharge(models.CategoryTractor, origin, mid), 0.0)
	})

	t.Run("borewell rig is free up to 15 km", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceCharge(models.CategoryBorewell, origin, far))
		assert.Greater(t, DistanceCharge(models.CategoryBorewell, origin, veryFar), 0.0)
	})
}
