package event

import "time"

const (
	TableStatusTopic        = "tables.status"
	EventTableStatusChanged = "table.status.changed"
	EventTablesMerged       = "table.merged"
	EventTablesUnmerged     = "table.unmerged"
)

// TableStatusEvent captures the minimal information floor displays need to
// reason about a table's availability.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	VenueID        string    `json:"venue_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// TableMergeEvent announces a merge or unmerge of a table pair.
type TableMergeEvent struct {
	EventType        string    `json:"event_type"`
	VenueID          string    `json:"venue_id"`
	PrimaryTableID   string    `json:"primary_table_id"`
	SecondaryTableID string    `json:"secondary_table_id"`
	Label            string    `json:"label,omitempty"`
	SeatCount        int       `json:"seat_count,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
