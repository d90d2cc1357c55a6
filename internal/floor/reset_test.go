package floor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDailyResetRequiresElevatedRole(t *testing.T) {
	c, _ := newTestCoordinator()

	_, err := c.DailyReset(context.Background(), DailyResetInput{
		VenueID: testVenueID,
		Role:    RoleStaff,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDailyReset(t *testing.T) {
	c, f := newTestCoordinator()
	seedTable(t, c, "1")
	seedTable(t, c, "2")

	for _, status := range []string{OrderStatusPlaced, OrderStatusInPrep, OrderStatusServing} {
		seedOrderAt(t, c, f, status)
	}
	start := time.Now().Add(time.Hour)
	seedReservation(t, c, start, start.Add(time.Hour))
	seedReservation(t, c, start, start.Add(2*time.Hour))

	summary, err := c.DailyReset(context.Background(), DailyResetInput{
		VenueID: testVenueID,
		Role:    RoleManager,
		UserID:  "mgr-1",
	})
	if err != nil {
		t.Fatalf("DailyReset() error = %v", err)
	}

	if summary.CompletedOrders != 3 {
		t.Errorf("expected 3 completed orders, got %d", summary.CompletedOrders)
	}
	if summary.CanceledReservations != 2 {
		t.Errorf("expected 2 canceled reservations, got %d", summary.CanceledReservations)
	}
	if summary.DeletedTables != 2 {
		t.Errorf("expected 2 deleted tables, got %d", summary.DeletedTables)
	}
	if summary.DeletedSessions != 2 {
		t.Errorf("expected 2 deleted sessions, got %d", summary.DeletedSessions)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("expected no step errors, got %v", summary.Errors)
	}

	// Orders survive as completed history; without force nothing is deleted.
	remaining, _ := f.orders.ListByVenueStatuses(context.Background(), testVenueID, []string{OrderStatusCompleted})
	if len(remaining) != 3 {
		t.Errorf("expected 3 completed orders to remain, got %d", len(remaining))
	}
	for _, order := range remaining {
		if order.ForcedBy != "mgr-1" {
			t.Errorf("expected forced completion audit, got forced_by=%s", order.ForcedBy)
		}
	}

	active, _ := f.orders.ListByVenueStatuses(context.Background(), testVenueID, ActiveOrderStatuses)
	if len(active) != 0 {
		t.Errorf("expected no active orders, got %d", len(active))
	}

	tables, _ := f.tables.List(context.Background(), testVenueID)
	if len(tables) != 0 {
		t.Errorf("expected no tables left, got %d", len(tables))
	}
}

func TestDailyResetForceDeletesHistory(t *testing.T) {
	c, f := newTestCoordinator()
	order := seedOrderAt(t, c, f, OrderStatusAccepted)
	if _, err := c.AdvanceOrder(context.Background(), order.ID, testVenueID, OrderStatusInPrep); err != nil {
		t.Fatalf("AdvanceOrder() error = %v", err)
	}

	summary, err := c.DailyReset(context.Background(), DailyResetInput{
		VenueID: testVenueID,
		Role:    RoleAdmin,
		Force:   true,
	})
	if err != nil {
		t.Fatalf("DailyReset() error = %v", err)
	}

	if summary.DeletedOrders != 1 {
		t.Errorf("expected 1 deleted order, got %d", summary.DeletedOrders)
	}
	if summary.DeletedTickets != 2 {
		t.Errorf("expected 2 deleted tickets, got %d", summary.DeletedTickets)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got != nil {
		t.Error("expected order history to be deleted with force")
	}
}

func TestDailyResetKeepsCompletedReservations(t *testing.T) {
	c, f := newTestCoordinator()
	start := time.Now().Add(-3 * time.Hour)
	done := seedReservation(t, c, start, start.Add(time.Hour))
	done.Complete(CompletionReasonTimeExpired)
	if err := f.reservations.Save(context.Background(), done); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	summary, err := c.DailyReset(context.Background(), DailyResetInput{
		VenueID: testVenueID,
		Role:    RoleManager,
	})
	if err != nil {
		t.Fatalf("DailyReset() error = %v", err)
	}
	if summary.CanceledReservations != 0 {
		t.Errorf("expected no cancellations, got %d", summary.CanceledReservations)
	}

	got, _ := f.reservations.Get(context.Background(), done.ID)
	if got.Status != ReservationStatusCompleted {
		t.Errorf("expected completed reservation untouched, got %s", got.Status)
	}
}

func TestDailyResetCollectsStepErrors(t *testing.T) {
	c, f := newTestCoordinator()
	seedOrderAt(t, c, f, OrderStatusPlaced)

	f.orders.SaveWithStatusFunc = func(ctx context.Context, o *Order, expected string) error {
		return errors.New("write timeout")
	}

	summary, err := c.DailyReset(context.Background(), DailyResetInput{
		VenueID: testVenueID,
		Role:    RoleManager,
	})
	if err != nil {
		t.Fatalf("DailyReset() error = %v", err)
	}

	if summary.CompletedOrders != 0 {
		t.Errorf("expected no completions, got %d", summary.CompletedOrders)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("expected 1 step error, got %v", summary.Errors)
	}
}
