package event

import "time"

const (
	OrderStatusTopic          = "orders.status"
	EventOrderStatusChanged   = "order.status.changed"
	EventOrderPaymentRecorded = "order.payment.recorded"
)

// OrderStatusEvent announces an order lifecycle transition. Consumers
// (floor displays, the operations assistant) treat it as informational;
// the order collection remains the source of truth.
type OrderStatusEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	VenueID        string    `json:"venue_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	TableID        string    `json:"table_id,omitempty"`
	Forced         bool      `json:"forced,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// OrderPaymentEvent announces payment collection for an order.
type OrderPaymentEvent struct {
	EventType     string    `json:"event_type"`
	OrderID       string    `json:"order_id"`
	VenueID       string    `json:"venue_id"`
	PaymentStatus string    `json:"payment_status"`
	Method        string    `json:"method,omitempty"`
	CollectedBy   string    `json:"collected_by,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
