package event

import "time"

const (
	PaymentConfirmedTopic = "payments.confirmed"
	EventPaymentConfirmed = "payment.confirmed"
)

// PaymentConfirmedEvent arrives from the payment gateway when an online
// payment settles. Delivery is at-least-once; consumers must tolerate
// duplicates.
type PaymentConfirmedEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	VenueID    string    `json:"venue_id"`
	Method     string    `json:"method"`
	Reference  string    `json:"reference,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
