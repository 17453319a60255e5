package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/manoj0277/agrirent-backend/models"
)

// DistanceRatePerKm is the flat surcharge per kilometre beyond a category's
// free service radius, in currency units.
const DistanceRatePerKm = 50.0

// BillableHours rounds the worked interval to whole billable hours.
//
// Drones bill the plain ceiling of the duration, corrected to 1 when it would
// come out as 0; every other category bills at least one full hour. A
// 61-minute tractor job and a 61-minute drone job both bill 2 hours; the
// difference is only in how the minimum is reached.
func BillableHours(category models.Category, start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 0, fmt.Errorf("work interval [%v, %v]: %w", start, end, ErrInvalidDuration)
	}
	hours := int(math.Ceil(end.Sub(start).Hours()))
	if category == models.CategoryDrone {
		if hours == 0 {
			hours = 1
		}
		return hours, nil
	}
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// FinalPrice computes the billable amount at work completion:
//
//	(purposeRate + operatorRate) * billableHours + distanceCharge
//
// The purpose rate comes from the item's price list (0 when the purpose is
// not listed); the operator rate applies only when the booking required an
// operator; the distance charge was frozen at acceptance time and is not
// re-derived here.
func FinalPrice(b *models.Booking, it *models.Item) (float64, error) {
	hours, err := BillableHours(b.ItemCategory, b.WorkStartTime, b.WorkEndTime)
	if err != nil {
		return 0, err
	}
	purposeRate := it.PurposeRateFor(b.WorkPurpose)
	operatorRate := 0.0
	if b.OperatorRequired {
		operatorRate = it.OperatorCharge
	}
	return (purposeRate+operatorRate)*float64(hours) + b.DistanceCharge, nil
}

// DistanceCharge computes the one-time surcharge for serving the requester
// from the item's location: great-circle distance beyond the category's free
// radius, billed per kilometre and rounded to the nearest currency unit.
// Computed once, when a concrete item is bound.
func DistanceCharge(category models.Category, from, to models.GeoPoint) float64 {
	d := haversine(from.Lat(), from.Lng(), to.Lat(), to.Lng())
	free := category.FreeRadiusKm()
	if d <= free {
		return 0
	}
	return math.Round((d - free) * DistanceRatePerKm)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
