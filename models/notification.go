package models

// NotificationEvent is one lifecycle event handed to the notification
// emitter. Delivery is fire-and-forget; the lifecycle core never awaits it.
type NotificationEvent struct {
	RecipientID string        `json:"recipientId"`
	Message     string        `json:"message"`
	Category    string        `json:"category"` // e.g. "booking_confirmed", "work_started"
	BookingID   string        `json:"bookingId,omitempty"`
	Status      BookingStatus `json:"status,omitempty"`
}

// Party is the read-only identity view resolved for notification and display
// purposes. The lifecycle core never mutates parties.
type Party struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Phone    string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Rating   float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	FCMToken string  `bson:"fcm_token,omitempty" json:"-"`
}

// ReminderPayload is the asynq task payload for due-tomorrow reminders.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	RecipientID string `json:"recipientId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	FireDate    string `json:"fireDate"`
}
