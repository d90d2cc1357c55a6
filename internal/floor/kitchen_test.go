package floor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func seedOrderWithTickets(t *testing.T, c *Coordinator, f *testFixtures) (*Order, []*KitchenTicket) {
	t.Helper()
	order := seedOrderAt(t, c, f, OrderStatusAccepted)
	if _, err := c.AdvanceOrder(context.Background(), order.ID, testVenueID, OrderStatusInPrep); err != nil {
		t.Fatalf("AdvanceOrder() error = %v", err)
	}
	tickets, err := f.tickets.ListByOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("ListByOrder() error = %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	return order, tickets
}

func TestBulkUpdateTicketsPartialBumpKeepsOrderInPrep(t *testing.T) {
	c, f := newTestCoordinator()
	order, tickets := seedOrderWithTickets(t, c, f)

	_, err := c.BulkUpdateTickets(context.Background(), BulkTicketUpdateInput{
		TicketIDs: []uuid.UUID{tickets[0].ID},
		VenueID:   testVenueID,
		Status:    TicketStatusBumped,
		OrderID:   &order.ID,
	})
	if err != nil {
		t.Fatalf("BulkUpdateTickets() error = %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != OrderStatusInPrep {
		t.Errorf("expected order to stay %s with one ticket open, got %s", OrderStatusInPrep, got.Status)
	}
}

func TestBulkUpdateTicketsLastBumpDrivesOrderReady(t *testing.T) {
	c, f := newTestCoordinator()
	order, tickets := seedOrderWithTickets(t, c, f)

	// Stations bump independently in either order; only the last bump
	// matters for readiness.
	for _, ticket := range []*KitchenTicket{tickets[1], tickets[0]} {
		if _, err := c.BulkUpdateTickets(context.Background(), BulkTicketUpdateInput{
			TicketIDs: []uuid.UUID{ticket.ID},
			VenueID:   testVenueID,
			Status:    TicketStatusBumped,
			OrderID:   &order.ID,
		}); err != nil {
			t.Fatalf("BulkUpdateTickets() error = %v", err)
		}
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != OrderStatusReady {
		t.Errorf("expected order %s after all bumps, got %s", OrderStatusReady, got.Status)
	}
	if f.publisher.TopicCount("kitchen.tickets") != 3 {
		// Two ticket status events plus one order-ready event.
		t.Errorf("expected 3 kitchen events, got %d", f.publisher.TopicCount("kitchen.tickets"))
	}
}

func TestBulkUpdateTicketsSingleBatchBumpDrivesOrderReady(t *testing.T) {
	c, f := newTestCoordinator()
	order, tickets := seedOrderWithTickets(t, c, f)

	_, err := c.BulkUpdateTickets(context.Background(), BulkTicketUpdateInput{
		TicketIDs: []uuid.UUID{tickets[0].ID, tickets[1].ID},
		VenueID:   testVenueID,
		Status:    TicketStatusBumped,
		OrderID:   &order.ID,
	})
	if err != nil {
		t.Fatalf("BulkUpdateTickets() error = %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != OrderStatusReady {
		t.Errorf("expected order %s, got %s", OrderStatusReady, got.Status)
	}
}

func TestBulkUpdateTicketsRepeatedBumpDoesNotRegressOrder(t *testing.T) {
	c, f := newTestCoordinator()
	order, tickets := seedOrderWithTickets(t, c, f)

	input := BulkTicketUpdateInput{
		TicketIDs: []uuid.UUID{tickets[0].ID, tickets[1].ID},
		VenueID:   testVenueID,
		Status:    TicketStatusBumped,
		OrderID:   &order.ID,
	}
	if _, err := c.BulkUpdateTickets(context.Background(), input); err != nil {
		t.Fatalf("first BulkUpdateTickets() error = %v", err)
	}

	ready, _ := f.orders.Get(context.Background(), order.ID)
	ready.Status = OrderStatusServing
	if err := f.orders.Save(context.Background(), ready); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A late duplicate bump arrives after the order moved on. Readiness
	// aggregation must leave it alone.
	if _, err := c.BulkUpdateTickets(context.Background(), input); err != nil {
		t.Fatalf("second BulkUpdateTickets() error = %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != OrderStatusServing {
		t.Errorf("expected order to stay %s, got %s", OrderStatusServing, got.Status)
	}
}

func TestBulkUpdateTicketsZeroTicketOrderIsVacuouslyReady(t *testing.T) {
	c, f := newTestCoordinator()

	// The referenced order has no tickets of its own; the bump belongs to a
	// different order. Zero tickets never block readiness.
	bare := seedOrderAt(t, c, f, OrderStatusInPrep)
	_, tickets := seedOrderWithTickets(t, c, f)

	_, err := c.BulkUpdateTickets(context.Background(), BulkTicketUpdateInput{
		TicketIDs: []uuid.UUID{tickets[0].ID},
		VenueID:   testVenueID,
		Status:    TicketStatusBumped,
		OrderID:   &bare.ID,
	})
	if err != nil {
		t.Fatalf("BulkUpdateTickets() error = %v", err)
	}

	got, _ := f.orders.Get(context.Background(), bare.ID)
	if got.Status != OrderStatusReady {
		t.Errorf("expected zero-ticket order to be %s, got %s", OrderStatusReady, got.Status)
	}
}

func TestBulkUpdateTicketsMissingIDWritesNothing(t *testing.T) {
	c, f := newTestCoordinator()
	_, tickets := seedOrderWithTickets(t, c, f)

	_, err := c.BulkUpdateTickets(context.Background(), BulkTicketUpdateInput{
		TicketIDs: []uuid.UUID{tickets[0].ID, uuid.New()},
		VenueID:   testVenueID,
		Status:    TicketStatusBumped,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The valid ticket listed before the unknown id must not have been
	// bumped on the way to the failure.
	got, _ := f.tickets.Get(context.Background(), tickets[0].ID)
	if got.Status != TicketStatusPreparing {
		t.Errorf("expected ticket to stay %s, got %s", TicketStatusPreparing, got.Status)
	}
}

func TestBulkUpdateTicketsValidation(t *testing.T) {
	c, f := newTestCoordinator()
	_, tickets := seedOrderWithTickets(t, c, f)

	tests := []struct {
		name  string
		input BulkTicketUpdateInput
	}{
		{"noIDs", BulkTicketUpdateInput{VenueID: testVenueID, Status: TicketStatusBumped}},
		{"badStatus", BulkTicketUpdateInput{TicketIDs: []uuid.UUID{tickets[0].ID}, VenueID: testVenueID, Status: "fired"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.BulkUpdateTickets(context.Background(), tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBulkUpdateTicketsWrongVenue(t *testing.T) {
	c, f := newTestCoordinator()
	_, tickets := seedOrderWithTickets(t, c, f)

	otherVenue := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	_, err := c.BulkUpdateTickets(context.Background(), BulkTicketUpdateInput{
		TicketIDs: []uuid.UUID{tickets[0].ID},
		VenueID:   otherVenue,
		Status:    TicketStatusBumped,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrderTickets(t *testing.T) {
	c, f := newTestCoordinator()
	order, _ := seedOrderWithTickets(t, c, f)

	tickets, err := c.ListOrderTickets(context.Background(), order.ID, testVenueID)
	if err != nil {
		t.Fatalf("ListOrderTickets() error = %v", err)
	}
	if len(tickets) != 2 {
		t.Errorf("expected 2 tickets, got %d", len(tickets))
	}

	otherVenue := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	if _, err := c.ListOrderTickets(context.Background(), order.ID, otherVenue); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign venue, got %v", err)
	}
}
