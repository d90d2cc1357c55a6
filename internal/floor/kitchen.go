package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BulkTicketUpdateInput updates a batch of tickets to one status. OrderID is
// optional; when set together with a bump, the aggregator checks whether the
// whole order is now ready.
type BulkTicketUpdateInput struct {
	TicketIDs []uuid.UUID
	VenueID   uuid.UUID
	Status    string
	OrderID   *uuid.UUID
}

// BulkUpdateTickets updates the given tickets and, when the new status is
// bumped and an order id was supplied, re-reads every ticket of that order
// to decide whether the order moves to READY. The readiness decision is
// always recomputed from a fresh full read, never from the delta being
// applied, so concurrent partial bumps from different stations cannot leave
// a stale verdict.
func (c *Coordinator) BulkUpdateTickets(ctx context.Context, in BulkTicketUpdateInput) ([]*KitchenTicket, error) {
	if len(in.TicketIDs) == 0 {
		return nil, fmt.Errorf("no ticket ids given: %w", ErrInvalidInput)
	}
	if !ValidTicketStatus(in.Status) {
		return nil, fmt.Errorf("unknown ticket status %q: %w", in.Status, ErrInvalidInput)
	}

	// Load the whole batch before writing anything: a missing or foreign
	// id must reject the batch without leaving earlier tickets updated.
	batch := make([]*KitchenTicket, 0, len(in.TicketIDs))
	for _, id := range in.TicketIDs {
		ticket, err := c.ticketRepo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cannot load ticket: %w", err)
		}
		if ticket == nil || ticket.VenueID != in.VenueID {
			return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
		}
		batch = append(batch, ticket)
	}

	updated := make([]*KitchenTicket, 0, len(batch))
	for _, ticket := range batch {
		previous := ticket.Status
		ticket.SetStatus(in.Status)
		if err := c.ticketRepo.Save(ctx, ticket); err != nil {
			return nil, fmt.Errorf("cannot save ticket: %w", err)
		}
		c.publishTicketStatus(ctx, ticket, previous)
		updated = append(updated, ticket)
	}

	if in.Status == TicketStatusBumped && in.OrderID != nil {
		if err := c.driveOrderReadiness(ctx, *in.OrderID, in.VenueID); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// ListOrderTickets returns the kitchen tickets of a venue-scoped order.
func (c *Coordinator) ListOrderTickets(ctx context.Context, orderID, venueID uuid.UUID) ([]*KitchenTicket, error) {
	if _, err := c.getVenueOrder(ctx, orderID, venueID); err != nil {
		return nil, err
	}

	tickets, err := c.ticketRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot list tickets for order: %w", err)
	}

	return tickets, nil
}

// driveOrderReadiness re-reads all tickets for the order and moves the order
// to READY only when every one of them is bumped. An order with zero tickets
// is vacuously ready: it is not blocked on kitchen state.
func (c *Coordinator) driveOrderReadiness(ctx context.Context, orderID, venueID uuid.UUID) error {
	tickets, err := c.ticketRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("cannot re-read tickets for order: %w", err)
	}

	for _, t := range tickets {
		if t.Status != TicketStatusBumped {
			return nil
		}
	}

	order, err := c.getVenueOrder(ctx, orderID, venueID)
	if err != nil {
		return err
	}
	if order.Status == OrderStatusReady {
		return nil
	}
	if !ValidOrderTransition(order.Status, OrderStatusReady) {
		// The order moved somewhere incompatible (cancelled, completed by a
		// forced sweep) while tickets were still being bumped. Kitchen state
		// no longer drives it.
		c.logger.Debug("order not eligible for READY", "order_id", orderID.String(), "status", order.Status)
		return nil
	}

	previous := order.Status
	order.Status = OrderStatusReady
	order.BeforeUpdate()
	if err := c.orderRepo.SaveWithStatus(ctx, order, previous); err != nil {
		return err
	}

	c.publishOrderReady(ctx, order, len(tickets))
	c.publishOrderStatus(ctx, order, previous, false, "kitchen.all_bumped")
	return nil
}

// spawnTickets creates one prep ticket per distinct station found on the
// order's items. Items without a station label share a single default
// kitchen ticket.
func (c *Coordinator) spawnTickets(ctx context.Context, order *Order) error {
	stations := make([]string, 0, len(order.Items))
	seen := make(map[string]bool)
	for _, item := range order.Items {
		station := item.Station
		if station == "" {
			station = "kitchen"
		}
		if !seen[station] {
			seen[station] = true
			stations = append(stations, station)
		}
	}

	for _, station := range stations {
		ticket := NewKitchenTicket()
		ticket.OrderID = order.ID
		ticket.VenueID = order.VenueID
		ticket.Station = station
		ticket.BeforeCreate()
		if err := c.ticketRepo.Create(ctx, ticket); err != nil {
			return fmt.Errorf("cannot create ticket for station %s: %w", station, err)
		}
	}
	return nil
}
