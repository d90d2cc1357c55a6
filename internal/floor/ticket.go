package floor

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// Kitchen ticket statuses. A ticket tracks one station's share of an order;
// the order itself is driven to READY only when every ticket is bumped.
const (
	TicketStatusPreparing = "preparing"
	TicketStatusReady     = "ready"
	TicketStatusBumped    = "bumped"
	TicketStatusServed    = "served"
	TicketStatusCancelled = "cancelled"
)

var ticketStatuses = []string{
	TicketStatusPreparing,
	TicketStatusReady,
	TicketStatusBumped,
	TicketStatusServed,
	TicketStatusCancelled,
}

// ValidTicketStatus reports whether s is one of the known ticket statuses.
func ValidTicketStatus(s string) bool {
	for _, status := range ticketStatuses {
		if status == s {
			return true
		}
	}
	return false
}

type KitchenTicket struct {
	ID        uuid.UUID  `json:"id" bson:"_id"`
	OrderID   uuid.UUID  `json:"order_id" bson:"order_id"`
	VenueID   uuid.UUID  `json:"venue_id" bson:"venue_id"`
	Station   string     `json:"station,omitempty" bson:"station,omitempty"`
	Status    string     `json:"status" bson:"status"`
	Notes     string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	BumpedAt  *time.Time `json:"bumped_at,omitempty" bson:"bumped_at,omitempty"`
}

func (t *KitchenTicket) GetID() uuid.UUID {
	return t.ID
}

func (t *KitchenTicket) ResourceType() string {
	return "kitchen-ticket"
}

func (t *KitchenTicket) SetID(id uuid.UUID) {
	t.ID = id
}

func NewKitchenTicket() *KitchenTicket {
	return &KitchenTicket{
		ID:     aqm.GenerateNewID(),
		Status: TicketStatusPreparing,
	}
}

func (t *KitchenTicket) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = aqm.GenerateNewID()
	}
}

func (t *KitchenTicket) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *KitchenTicket) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

// SetStatus applies the new status and stamps BumpedAt when the ticket is
// bumped for the first time.
func (t *KitchenTicket) SetStatus(status string) {
	t.Status = status
	if status == TicketStatusBumped && t.BumpedAt == nil {
		now := time.Now()
		t.BumpedAt = &now
	}
	t.UpdatedAt = time.Now()
}
