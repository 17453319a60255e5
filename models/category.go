package models

// Category tags the kind of equipment or labor a booking asks for. It is
// required on a booking even before a concrete item is matched.
type Category string

const (
	CategoryTractor     Category = "Tractor"
	CategoryHarvester   Category = "Harvester"
	CategoryDrone       Category = "Drone"
	CategoryJCB         Category = "JCB"
	CategoryBorewell    Category = "Borewell"
	CategoryWorker      Category = "Worker"
	CategoryDriver      Category = "Driver"
	CategorySprayer     Category = "Sprayer"
	CategoryRotavator   Category = "Rotavator"
	CategoryTransporter Category = "Transporter"
)

// CategorySpec carries the per-category policy knobs used by pricing and
// acceptance.
type CategorySpec struct {
	// FreeRadiusKm is the service radius within which no distance surcharge
	// applies.
	FreeRadiusKm float64
	// QuantityBased marks categories booked in units (worker gangs) rather
	// than as a single machine.
	QuantityBased bool
	// OperatorCapable marks machine categories that may need a paid operator
	// supplied separately from the machine.
	OperatorCapable bool
}

var defaultSpec = CategorySpec{FreeRadiusKm: 3}

var categorySpecs = map[Category]CategorySpec{
	CategoryTractor:   {FreeRadiusKm: 3, OperatorCapable: true},
	CategoryHarvester: {FreeRadiusKm: 10, OperatorCapable: true},
	CategoryJCB:       {FreeRadiusKm: 3, OperatorCapable: true},
	CategoryBorewell:  {FreeRadiusKm: 15},
	CategoryDrone:     {FreeRadiusKm: 3},
	CategoryWorker:    {FreeRadiusKm: 3, QuantityBased: true},
	CategoryDriver:    {FreeRadiusKm: 3},
	CategorySprayer:   {FreeRadiusKm: 3},
	CategoryRotavator: {FreeRadiusKm: 3, OperatorCapable: true},
}

// Spec returns the policy for c, falling back to the default 3 km radius for
// unknown categories.
func (c Category) Spec() CategorySpec {
	if s, ok := categorySpecs[c]; ok {
		return s
	}
	return defaultSpec
}

func (c Category) QuantityBased() bool   { return c.Spec().QuantityBased }
func (c Category) OperatorCapable() bool { return c.Spec().OperatorCapable }
func (c Category) FreeRadiusKm() float64 { return c.Spec().FreeRadiusKm }

// IsOperator reports whether items of this category fulfil the operator role
// in a two-stage (machine + driver) acceptance.
func (c Category) IsOperator() bool { return c == CategoryDriver }
