package event

import "time"

const (
	KitchenTicketsTopic            = "kitchen.tickets"
	EventKitchenTicketStatusChange = "kitchen.ticket.status_changed"
	EventKitchenOrderReady         = "kitchen.order.ready"
)

// KitchenTicketStatusEvent announces a prep ticket status change.
type KitchenTicketStatusEvent struct {
	EventType      string    `json:"event_type"`
	TicketID       string    `json:"ticket_id"`
	OrderID        string    `json:"order_id"`
	VenueID        string    `json:"venue_id"`
	Station        string    `json:"station,omitempty"`
	NewStatus      string    `json:"new_status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// KitchenOrderReadyEvent is emitted once every ticket of an order has been
// bumped and the order itself was driven to READY.
type KitchenOrderReadyEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	VenueID     string    `json:"venue_id"`
	TicketCount int       `json:"ticket_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}
