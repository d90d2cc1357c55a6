package floor

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// Table session statuses. A table has at most one session with a nil
// ClosedAt; closing a session always opens a fresh one so "current session"
// lookups never come back empty.
const (
	SessionStatusFree     = "FREE"
	SessionStatusOccupied = "OCCUPIED"
	SessionStatusOrdering = "ORDERING"
	SessionStatusMerged   = "MERGED"
)

type TableSession struct {
	ID           uuid.UUID  `json:"id" bson:"_id"`
	VenueID      uuid.UUID  `json:"venue_id" bson:"venue_id"`
	TableID      uuid.UUID  `json:"table_id" bson:"table_id"`
	// OrderID is detached (set back to nil) when its order finishes while
	// other orders keep the table; no omitempty on the bson tag so the
	// $set save writes the nil through.
	OrderID *uuid.UUID `json:"order_id,omitempty" bson:"order_id"`
	Status       string     `json:"status" bson:"status"`
	CustomerName string     `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	PartySize    int        `json:"party_size,omitempty" bson:"party_size,omitempty"`
	OpenedAt     time.Time  `json:"opened_at" bson:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

func (s *TableSession) GetID() uuid.UUID {
	return s.ID
}

func (s *TableSession) ResourceType() string {
	return "table-session"
}

func (s *TableSession) SetID(id uuid.UUID) {
	s.ID = id
}

func NewTableSession(venueID, tableID uuid.UUID, status string) *TableSession {
	return &TableSession{
		ID:       aqm.GenerateNewID(),
		VenueID:  venueID,
		TableID:  tableID,
		Status:   status,
		OpenedAt: time.Now(),
	}
}

// IsOpen reports whether the session is the table's current one.
func (s *TableSession) IsOpen() bool {
	return s.ClosedAt == nil
}

func (s *TableSession) Close() {
	now := time.Now()
	s.ClosedAt = &now
}
