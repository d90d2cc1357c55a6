package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type OpenSessionInput struct {
	TableID      uuid.UUID
	VenueID      uuid.UUID
	CustomerName string
	PartySize    int
}

// OpenSession seats a party: the table's FREE session is closed and a fresh
// ORDERING session opened in its place. A table that is not currently FREE
// cannot be seated.
func (c *Coordinator) OpenSession(ctx context.Context, in OpenSessionInput) (*TableSession, error) {
	table, err := c.getVenueTable(ctx, in.TableID, in.VenueID)
	if err != nil {
		return nil, err
	}

	current, err := c.sessionRepo.GetOpenByTable(ctx, table.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table session: %w", err)
	}
	if current != nil && current.Status != SessionStatusFree {
		return nil, fmt.Errorf("table %s is %s, not FREE: %w", table.Label, current.Status, ErrPreconditionFailed)
	}

	if current != nil {
		current.Close()
		if err := c.sessionRepo.Save(ctx, current); err != nil {
			return nil, fmt.Errorf("cannot close previous session: %w", err)
		}
	}

	session := NewTableSession(in.VenueID, table.ID, SessionStatusOrdering)
	session.CustomerName = in.CustomerName
	session.PartySize = in.PartySize
	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot open session: %w", err)
	}

	c.syncFloorState(ctx, in.VenueID, table.ID, SessionStatusOrdering)
	c.publishTableStatus(ctx, table, SessionStatusOrdering, "table.seated")
	return session, nil
}

// CloseSessionForOrder frees the table once its order finished. It matches
// the session by order id first and falls back to the table's open session,
// because completion races with other table-clearing paths. The table only
// flips to FREE when no other active order remains on it, and a redundant
// call on an already free table is a no-op, never an error.
func (c *Coordinator) CloseSessionForOrder(ctx context.Context, orderID, venueID uuid.UUID) error {
	session, err := c.sessionRepo.GetOpenByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("cannot look up session for order: %w", err)
	}

	if session == nil {
		// Already cleared by a racing path; try the table itself.
		order, err := c.orderRepo.Get(ctx, orderID)
		if err != nil || order == nil || order.TableID == nil {
			return nil
		}
		session, err = c.sessionRepo.GetOpenByTable(ctx, *order.TableID)
		if err != nil || session == nil {
			return nil
		}
	}

	if session.Status == SessionStatusFree && session.OrderID == nil {
		return nil
	}

	occupied, err := c.tableHasActiveOrders(ctx, session.TableID, orderID)
	if err != nil {
		return err
	}
	if occupied {
		// Other parties or orders still hold the table; just detach this order.
		session.OrderID = nil
		session.Status = SessionStatusOccupied
		if err := c.sessionRepo.Save(ctx, session); err != nil {
			return fmt.Errorf("cannot detach order from session: %w", err)
		}
		c.syncFloorState(ctx, venueID, session.TableID, SessionStatusOccupied)
		return nil
	}

	session.Status = SessionStatusFree
	session.OrderID = nil
	session.Close()
	if err := c.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("cannot close session: %w", err)
	}

	fresh := NewTableSession(venueID, session.TableID, SessionStatusFree)
	if err := c.sessionRepo.Create(ctx, fresh); err != nil {
		return fmt.Errorf("cannot open fresh session: %w", err)
	}

	c.syncFloorState(ctx, venueID, session.TableID, SessionStatusFree)
	return nil
}

// releaseTableForOrder is the best-effort ripple of a finished order. A
// failure here is logged and surfaced nowhere: a stuck table must not undo
// an already committed order transition.
func (c *Coordinator) releaseTableForOrder(ctx context.Context, order *Order) {
	if !order.IsDineIn() {
		return
	}
	if err := c.CloseSessionForOrder(ctx, order.ID, order.VenueID); err != nil {
		c.logger.Error("cannot release table after order finished",
			"order_id", order.ID.String(),
			"table_id", order.TableID.String(),
			"error", err,
		)
	}
}
