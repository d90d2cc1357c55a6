package floor

import (
	"context"

	"github.com/google/uuid"
)

type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithStatus writes the order only if its stored status still equals
	// expectedStatus. It returns ErrPreconditionFailed when another writer
	// moved the order first.
	SaveWithStatus(ctx context.Context, order *Order, expectedStatus string) error
	ListByTable(ctx context.Context, tableID uuid.UUID) ([]*Order, error)
	ListByVenueStatuses(ctx context.Context, venueID uuid.UUID, statuses []string) ([]*Order, error)
	CountPaidByTable(ctx context.Context, tableID uuid.UUID) (int64, error)
	DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error)
}

type TicketRepo interface {
	Create(ctx context.Context, ticket *KitchenTicket) error
	Get(ctx context.Context, id uuid.UUID) (*KitchenTicket, error)
	Save(ctx context.Context, ticket *KitchenTicket) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*KitchenTicket, error)
	DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error)
}

type TableRepo interface {
	Create(ctx context.Context, table *Table) error
	Get(ctx context.Context, id uuid.UUID) (*Table, error)
	Save(ctx context.Context, table *Table) error
	List(ctx context.Context, venueID uuid.UUID) ([]*Table, error)
	DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error)
}

type SessionRepo interface {
	Create(ctx context.Context, session *TableSession) error
	Save(ctx context.Context, session *TableSession) error
	// GetOpenByTable returns the table's current session (ClosedAt == nil),
	// or nil when none exists.
	GetOpenByTable(ctx context.Context, tableID uuid.UUID) (*TableSession, error)
	// GetOpenByOrder returns the open session referencing the order, or nil.
	GetOpenByOrder(ctx context.Context, orderID uuid.UUID) (*TableSession, error)
	DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error)
}

type ReservationRepo interface {
	Create(ctx context.Context, reservation *Reservation) error
	Get(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Save(ctx context.Context, reservation *Reservation) error
	List(ctx context.Context, venueID uuid.UUID) ([]*Reservation, error)
	ListByVenueStatuses(ctx context.Context, venueID uuid.UUID, statuses []string) ([]*Reservation, error)
}

// FloorStateStore holds the derived per-venue floor snapshot (table id to
// session status). It is a best-effort read model for floor displays; the
// session collection remains authoritative.
type FloorStateStore interface {
	SetTableStatus(ctx context.Context, venueID, tableID uuid.UUID, status string) error
	Snapshot(ctx context.Context, venueID uuid.UUID) (map[string]string, error)
	Clear(ctx context.Context, venueID uuid.UUID) error
}
