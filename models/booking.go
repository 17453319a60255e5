package models

import "time"

// Booking is the central entity of the rental core. It is created once by the
// request flow and then owned exclusively by the lifecycle service until it
// reaches a terminal state. Nothing hard-deletes a booking.
type Booking struct {
	ID          string `bson:"id" json:"id"`
	RequesterID string `bson:"requester_id" json:"requesterId"`
	ProviderID  string `bson:"provider_id,omitempty" json:"providerId,omitempty"`
	ItemID      string `bson:"item_id,omitempty" json:"itemId,omitempty"`

	ItemCategory Category      `bson:"item_category" json:"itemCategory"`
	Status       BookingStatus `bson:"status" json:"status"`

	Date                   string  `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartTime              string  `bson:"start_time" json:"startTime"`
	EndTime                string  `bson:"end_time,omitempty" json:"endTime,omitempty"`
	EstimatedDurationHours float64 `bson:"estimated_duration_hours,omitempty" json:"estimatedDurationHours,omitempty"`

	WorkPurpose            string `bson:"work_purpose" json:"workPurpose"`
	Quantity               int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
	AllowMultipleSuppliers bool   `bson:"allow_multiple_suppliers,omitempty" json:"allowMultipleSuppliers,omitempty"`

	OperatorRequired bool   `bson:"operator_required,omitempty" json:"operatorRequired,omitempty"`
	OperatorID       string `bson:"operator_id,omitempty" json:"operatorId,omitempty"`
	PreferredModel   string `bson:"preferred_model,omitempty" json:"preferredModel,omitempty"`

	// RequesterLocation is snapshotted at creation and used once, at
	// acceptance, to freeze the distance surcharge.
	RequesterLocation GeoPoint `bson:"requester_location,omitempty" json:"requesterLocation,omitempty"`
	DistanceCharge    float64  `bson:"distance_charge,omitempty" json:"distanceCharge,omitempty"`

	AdvanceAmount  float64 `bson:"advance_amount,omitempty" json:"advanceAmount,omitempty"`
	EstimatedPrice float64 `bson:"estimated_price,omitempty" json:"estimatedPrice,omitempty"`
	FinalPrice     float64 `bson:"final_price,omitempty" json:"finalPrice,omitempty"`

	OTPCode     string `bson:"otp_code,omitempty" json:"-"`
	OTPVerified bool   `bson:"otp_verified,omitempty" json:"otpVerified,omitempty"`

	WorkStartTime time.Time `bson:"work_start_time,omitempty" json:"workStartTime,omitempty"`
	WorkEndTime   time.Time `bson:"work_end_time,omitempty" json:"workEndTime,omitempty"`

	DisputeRaised   bool `bson:"dispute_raised,omitempty" json:"disputeRaised,omitempty"`
	DisputeResolved bool `bson:"dispute_resolved,omitempty" json:"disputeResolved,omitempty"`
	DamageReported  bool `bson:"damage_reported,omitempty" json:"damageReported,omitempty"`

	// IsRebroadcast is set when a rejected direct request is reopened as an
	// open broadcast.
	IsRebroadcast bool `bson:"is_rebroadcast,omitempty" json:"isRebroadcast,omitempty"`

	// SplitFrom links a partial-fulfillment sibling back to the booking it was
	// carved out of.
	SplitFrom string `bson:"split_from,omitempty" json:"splitFrom,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// Version backs the optimistic guarded writes in the repositories.
	Version int `bson:"version" json:"-"`
}

// ReservedUnits returns how many capacity units this booking holds on its
// bound item: the quantity for quantity-based categories, otherwise 0 meaning
// "the whole unit item".
func (b *Booking) ReservedUnits() int {
	if b.ItemCategory.QuantityBased() {
		return b.Quantity
	}
	return 0
}
