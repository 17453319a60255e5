package models

// GeoPoint is a GeoJSON point: Coordinates[0] is longitude, Coordinates[1] is
// latitude.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude/longitude.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (g GeoPoint) Lng() float64 {
	if len(g.Coordinates) < 1 {
		return 0
	}
	return g.Coordinates[0]
}

func (g GeoPoint) Lat() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// PurposeRate is one entry of an item's work-purpose price list.
type PurposeRate struct {
	Purpose string  `bson:"purpose" json:"purpose"`
	Price   float64 `bson:"price" json:"price"` // per billable hour
}

// Item is a provider's rentable machine or labor gang. Availability fields are
// the capacity ledger: they are only ever mutated together with a booking
// status transition.
type Item struct {
	ID         string   `bson:"id" json:"id"`
	ProviderID string   `bson:"provider_id" json:"providerId"`
	Category   Category `bson:"category" json:"category"`
	Model      string   `bson:"model,omitempty" json:"model,omitempty"`

	// Available is false whenever a unique unit is consumed, or whenever
	// QuantityAvailable has reached zero for quantity-based categories.
	Available         bool `bson:"available" json:"available"`
	QuantityAvailable int  `bson:"quantity_available,omitempty" json:"quantityAvailable,omitempty"`

	Purposes       []PurposeRate `bson:"purposes,omitempty" json:"purposes,omitempty"`
	OperatorCharge float64       `bson:"operator_charge,omitempty" json:"operatorCharge,omitempty"`

	Location GeoPoint `bson:"location,omitempty" json:"location,omitempty"`

	Version int `bson:"version" json:"-"`
}

// PurposeRateFor returns the hourly rate for the given work purpose, or 0 when
// the item does not list it.
func (it *Item) PurposeRateFor(purpose string) float64 {
	for _, p := range it.Purposes {
		if p.Purpose == purpose {
			return p.Price
		}
	}
	return 0
}
