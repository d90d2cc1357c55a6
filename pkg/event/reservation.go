package event

import "time"

const (
	ReservationStatusTopic          = "reservations.status"
	EventReservationStatusChanged   = "reservation.status.changed"
	EventReservationAutoCompleted   = "reservation.auto_completed"
)

// ReservationStatusEvent announces a reservation lifecycle transition.
// CompletionReason is set only for auto-completed reservations and carries
// either "time_expired" or "payment_completed".
type ReservationStatusEvent struct {
	EventType        string    `json:"event_type"`
	ReservationID    string    `json:"reservation_id"`
	VenueID          string    `json:"venue_id"`
	TableID          string    `json:"table_id,omitempty"`
	Status           string    `json:"status"`
	PreviousStatus   string    `json:"previous_status,omitempty"`
	CompletionReason string    `json:"completion_reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
