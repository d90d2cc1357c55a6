package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type DailyResetInput struct {
	VenueID uuid.UUID
	Force   bool
	Role    string
	UserID  string
}

// ResetSummary reports each step of a daily reset. Steps run independently;
// a failed step is recorded and the sweep continues, so the summary can mix
// progress and errors.
type ResetSummary struct {
	CompletedOrders      int      `json:"completed_orders"`
	CanceledReservations int      `json:"canceled_reservations"`
	DeletedTables        int64    `json:"deleted_tables"`
	DeletedSessions      int64    `json:"deleted_sessions"`
	DeletedOrders        int64    `json:"deleted_orders,omitempty"`
	DeletedTickets       int64    `json:"deleted_tickets,omitempty"`
	Errors               []string `json:"errors,omitempty"`
}

func (s *ResetSummary) fail(step string, err error) {
	s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", step, err))
}

// DailyReset sweeps a venue back to a clean slate: active orders are
// force-completed, booked reservations cancelled, table and session rows
// deleted outright (the floor is rebuilt each day), and the derived runtime
// state cleared. With force, order and ticket rows are deleted as well.
// The sweep is deliberately not atomic; each step reports its own failure
// and never rolls back the ones before it.
func (c *Coordinator) DailyReset(ctx context.Context, in DailyResetInput) (*ResetSummary, error) {
	if !privilegedRole(in.Role) {
		return nil, fmt.Errorf("daily reset requires an elevated role: %w", ErrForbidden)
	}

	summary := &ResetSummary{}

	// Step 1: force-complete every in-flight order. This intentionally
	// bypasses the SERVING/PAID precondition of normal completion; it is a
	// distinct administrative operation, not a relaxed variant of it.
	orders, err := c.orderRepo.ListByVenueStatuses(ctx, in.VenueID, ActiveOrderStatuses)
	if err != nil {
		summary.fail("list active orders", err)
	} else {
		for _, order := range orders {
			previous := order.Status
			order.ForcedBy = in.UserID
			order.ForcedReason = "daily reset"
			order.Complete()
			if err := c.orderRepo.SaveWithStatus(ctx, order, previous); err != nil {
				summary.fail(fmt.Sprintf("complete order %s", order.ID), err)
				continue
			}
			summary.CompletedOrders++
			c.publishOrderStatus(ctx, order, previous, true, "daily reset")
		}
	}

	// Step 2: cancel booked reservations.
	reservations, err := c.reservationRepo.ListByVenueStatuses(ctx, in.VenueID,
		[]string{ReservationStatusBooked})
	if err != nil {
		summary.fail("list booked reservations", err)
	} else {
		for _, reservation := range reservations {
			previous := reservation.Status
			reservation.Cancel()
			if err := c.reservationRepo.Save(ctx, reservation); err != nil {
				summary.fail(fmt.Sprintf("cancel reservation %s", reservation.ID), err)
				continue
			}
			summary.CanceledReservations++
			c.publishReservationStatus(ctx, reservation, previous)
		}
	}

	// Step 3: drop the floor layout. Tables are set up fresh each day.
	if deleted, err := c.sessionRepo.DeleteByVenue(ctx, in.VenueID); err != nil {
		summary.fail("delete sessions", err)
	} else {
		summary.DeletedSessions = deleted
	}
	if deleted, err := c.tableRepo.DeleteByVenue(ctx, in.VenueID); err != nil {
		summary.fail("delete tables", err)
	} else {
		summary.DeletedTables = deleted
	}

	// Step 4: clear the derived runtime snapshot.
	if c.floorState != nil {
		if err := c.floorState.Clear(ctx, in.VenueID); err != nil {
			summary.fail("clear floor state", err)
		}
	}

	// Step 5: with force, order history goes too, tickets with it.
	if in.Force {
		if deleted, err := c.ticketRepo.DeleteByVenue(ctx, in.VenueID); err != nil {
			summary.fail("delete tickets", err)
		} else {
			summary.DeletedTickets = deleted
		}
		if deleted, err := c.orderRepo.DeleteByVenue(ctx, in.VenueID); err != nil {
			summary.fail("delete orders", err)
		} else {
			summary.DeletedOrders = deleted
		}
	}

	return summary, nil
}
