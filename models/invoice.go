package models

import "time"

// Invoice records a settled booking payment. Settlement itself is simulated;
// the invoice is the durable trace the rest of the system reads.
type Invoice struct {
	InvoiceID string    `bson:"invoice_id" json:"invoiceId"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	PayerID   string    `bson:"payer_id" json:"payerId"`
	PayeeID   string    `bson:"payee_id" json:"payeeId"`
	Amount    float64   `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Method    string    `bson:"method" json:"method"` // "cash" or "upi"
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
