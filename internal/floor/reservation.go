package floor

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const (
	ReservationStatusBooked    = "BOOKED"
	ReservationStatusCheckedIn = "CHECKED_IN"
	ReservationStatusCompleted = "COMPLETED"
	ReservationStatusCancelled = "CANCELLED"
)

// Auto-completion reasons, tracked separately for audit.
const (
	CompletionReasonTimeExpired      = "time_expired"
	CompletionReasonPaymentCompleted = "payment_completed"
)

type Reservation struct {
	ID               uuid.UUID  `json:"id" bson:"_id"`
	VenueID          uuid.UUID  `json:"venue_id" bson:"venue_id"`
	TableID          *uuid.UUID `json:"table_id,omitempty" bson:"table_id,omitempty"`
	Status           string     `json:"status" bson:"status"`
	PartySize        int        `json:"party_size" bson:"party_size"`
	ContactName      string     `json:"contact_name,omitempty" bson:"contact_name,omitempty"`
	ContactInfo      string     `json:"contact_info,omitempty" bson:"contact_info,omitempty"`
	StartAt          time.Time  `json:"start_at" bson:"start_at"`
	EndAt            time.Time  `json:"end_at" bson:"end_at"`
	CompletionReason string     `json:"completion_reason,omitempty" bson:"completion_reason,omitempty"`
	Notes            string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at"`
}

func (r *Reservation) GetID() uuid.UUID {
	return r.ID
}

func (r *Reservation) ResourceType() string {
	return "reservation"
}

func (r *Reservation) SetID(id uuid.UUID) {
	r.ID = id
}

func NewReservation() *Reservation {
	return &Reservation{
		ID:     aqm.GenerateNewID(),
		Status: ReservationStatusBooked,
	}
}

func (r *Reservation) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = aqm.GenerateNewID()
	}
}

func (r *Reservation) BeforeCreate() {
	r.EnsureID()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
}

func (r *Reservation) BeforeUpdate() {
	r.UpdatedAt = time.Now()
}

// IsActive reports whether the reservation still holds or could hold a table.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusBooked || r.Status == ReservationStatusCheckedIn
}

func (r *Reservation) CheckIn(tableID uuid.UUID) {
	r.Status = ReservationStatusCheckedIn
	r.TableID = &tableID
	r.UpdatedAt = time.Now()
}

func (r *Reservation) Complete(reason string) {
	r.Status = ReservationStatusCompleted
	r.CompletionReason = reason
	r.UpdatedAt = time.Now()
}

func (r *Reservation) Cancel() {
	r.Status = ReservationStatusCancelled
	r.UpdatedAt = time.Now()
}
