package floor

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

// Roles accepted by privileged operations. Authentication happens at the
// boundary; the coordinator only checks the already-established role so the
// authorization input stays visible in every call signature.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

func privilegedRole(role string) bool {
	return role == RoleManager || role == RoleAdmin
}

// Repos bundles the persistence ports the coordinator operates on.
type Repos struct {
	OrderRepo       OrderRepo
	TicketRepo      TicketRepo
	TableRepo       TableRepo
	SessionRepo     SessionRepo
	ReservationRepo ReservationRepo
}

// CoordinatorDeps carries the coordinator's collaborators. FloorState and
// Publisher are optional; when nil the related side effects are skipped.
type CoordinatorDeps struct {
	Repos
	FloorState FloorStateStore
	Publisher  events.Publisher
}

// Coordinator implements the order / table-session / kitchen-ticket
// lifecycle rules. Every operation is a short bounded sequence of store
// calls; concurrency safety comes from current-state preconditions on
// writes plus full re-reads before derived decisions, not from in-process
// locking.
type Coordinator struct {
	orderRepo       OrderRepo
	ticketRepo      TicketRepo
	tableRepo       TableRepo
	sessionRepo     SessionRepo
	reservationRepo ReservationRepo
	floorState      FloorStateStore
	publisher       events.Publisher
	logger          aqm.Logger
}

func NewCoordinator(deps CoordinatorDeps, logger aqm.Logger) *Coordinator {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Coordinator{
		orderRepo:       deps.OrderRepo,
		ticketRepo:      deps.TicketRepo,
		tableRepo:       deps.TableRepo,
		sessionRepo:     deps.SessionRepo,
		reservationRepo: deps.ReservationRepo,
		floorState:      deps.FloorState,
		publisher:       deps.Publisher,
		logger:          logger,
	}
}

// getVenueOrder loads an order and checks venue membership. An order from
// another venue is reported as absent, not as forbidden, so ids cannot be
// probed across tenants.
func (c *Coordinator) getVenueOrder(ctx context.Context, orderID, venueID uuid.UUID) (*Order, error) {
	order, err := c.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot load order: %w", err)
	}
	if order == nil || order.VenueID != venueID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return order, nil
}

// getVenueTable loads a table and checks venue membership.
func (c *Coordinator) getVenueTable(ctx context.Context, tableID, venueID uuid.UUID) (*Table, error) {
	table, err := c.tableRepo.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if table == nil || table.VenueID != venueID {
		return nil, fmt.Errorf("table %s: %w", tableID, ErrNotFound)
	}
	return table, nil
}

// tableHasActiveOrders re-queries the order collection for the table. The
// session being closed is never assumed to be the only reason the table was
// occupied.
func (c *Coordinator) tableHasActiveOrders(ctx context.Context, tableID uuid.UUID, excludeOrderID uuid.UUID) (bool, error) {
	orders, err := c.orderRepo.ListByTable(ctx, tableID)
	if err != nil {
		return false, fmt.Errorf("cannot list orders for table: %w", err)
	}
	for _, o := range orders {
		if o.ID == excludeOrderID {
			continue
		}
		if IsActiveOrderStatus(o.Status) {
			return true, nil
		}
	}
	return false, nil
}
