package floor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookReservationInput struct {
	VenueID     uuid.UUID
	TableID     *uuid.UUID
	PartySize   int
	ContactName string
	ContactInfo string
	StartAt     time.Time
	EndAt       time.Time
	Notes       string
}

// AutoCompleteSummary reports one reservation sweep, with the two completion
// triggers counted separately for audit.
type AutoCompleteSummary struct {
	Completed        int `json:"completed"`
	TimeExpired      int `json:"time_expired"`
	PaymentCompleted int `json:"payment_completed"`
}

// BookReservation records a future booking. The table assignment may stay
// open until the party is seated.
func (c *Coordinator) BookReservation(ctx context.Context, in BookReservationInput) (*Reservation, error) {
	if in.PartySize <= 0 {
		return nil, fmt.Errorf("party size must be positive: %w", ErrInvalidInput)
	}
	if !in.EndAt.After(in.StartAt) {
		return nil, fmt.Errorf("reservation must end after it starts: %w", ErrInvalidInput)
	}
	if in.TableID != nil {
		if _, err := c.getVenueTable(ctx, *in.TableID, in.VenueID); err != nil {
			return nil, err
		}
	}

	reservation := NewReservation()
	reservation.VenueID = in.VenueID
	reservation.TableID = in.TableID
	reservation.PartySize = in.PartySize
	reservation.ContactName = in.ContactName
	reservation.ContactInfo = in.ContactInfo
	reservation.StartAt = in.StartAt
	reservation.EndAt = in.EndAt
	reservation.Notes = in.Notes
	reservation.BeforeCreate()

	if err := c.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("cannot create reservation: %w", err)
	}
	return reservation, nil
}

// CheckInReservation seats a booked party at a table. The table must be
// FREE; its session becomes OCCUPIED.
func (c *Coordinator) CheckInReservation(ctx context.Context, reservationID, venueID, tableID uuid.UUID) (*Reservation, error) {
	reservation, err := c.getVenueReservation(ctx, reservationID, venueID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != ReservationStatusBooked {
		return nil, fmt.Errorf("reservation is %s, not BOOKED: %w", reservation.Status, ErrPreconditionFailed)
	}

	table, err := c.getVenueTable(ctx, tableID, venueID)
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

	session := NewTableSession(venueID, table.ID, SessionStatusOccupied)
	session.CustomerName = reservation.ContactName
	session.PartySize = reservation.PartySize
	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot open session: %w", err)
	}

	previous := reservation.Status
	reservation.CheckIn(table.ID)
	if err := c.reservationRepo.Save(ctx, reservation); err != nil {
		return nil, fmt.Errorf("cannot check in reservation: %w", err)
	}

	c.syncFloorState(ctx, venueID, table.ID, SessionStatusOccupied)
	c.publishReservationStatus(ctx, reservation, previous)
	c.publishTableStatus(ctx, table, SessionStatusOccupied, "reservation.checked_in")
	return reservation, nil
}

// ListReservations returns all of the venue's reservations, past and
// active.
func (c *Coordinator) ListReservations(ctx context.Context, venueID uuid.UUID) ([]*Reservation, error) {
	reservations, err := c.reservationRepo.List(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("cannot list reservations: %w", err)
	}
	return reservations, nil
}

// CancelReservation cancels a booking that has not completed yet.
func (c *Coordinator) CancelReservation(ctx context.Context, reservationID, venueID uuid.UUID) (*Reservation, error) {
	reservation, err := c.getVenueReservation(ctx, reservationID, venueID)
	if err != nil {
		return nil, err
	}
	if !reservation.IsActive() {
		return nil, fmt.Errorf("reservation is %s: %w", reservation.Status, ErrInvalidTransition)
	}

	previous := reservation.Status
	reservation.Cancel()
	if err := c.reservationRepo.Save(ctx, reservation); err != nil {
		return nil, fmt.Errorf("cannot cancel reservation: %w", err)
	}

	c.publishReservationStatus(ctx, reservation, previous)
	return reservation, nil
}

// AutoCompleteReservations sweeps every active reservation of the venue and
// completes the ones whose window passed (time_expired) or whose table has
// settled its bill and emptied out (payment_completed). Table release after
// completion is best-effort and never fails the sweep.
func (c *Coordinator) AutoCompleteReservations(ctx context.Context, venueID uuid.UUID) (*AutoCompleteSummary, error) {
	active, err := c.reservationRepo.ListByVenueStatuses(ctx, venueID,
		[]string{ReservationStatusBooked, ReservationStatusCheckedIn})
	if err != nil {
		return nil, fmt.Errorf("cannot list active reservations: %w", err)
	}

	summary := &AutoCompleteSummary{}
	now := time.Now()

	for _, reservation := range active {
		reason, err := c.completionReason(ctx, reservation, now)
		if err != nil {
			c.logger.Error("cannot evaluate reservation",
				"reservation_id", reservation.ID.String(), "error", err)
			continue
		}
		if reason == "" {
			continue
		}

		previous := reservation.Status
		reservation.Complete(reason)
		if err := c.reservationRepo.Save(ctx, reservation); err != nil {
			c.logger.Error("cannot complete reservation",
				"reservation_id", reservation.ID.String(), "error", err)
			continue
		}

		summary.Completed++
		switch reason {
		case CompletionReasonTimeExpired:
			summary.TimeExpired++
		case CompletionReasonPaymentCompleted:
			summary.PaymentCompleted++
		}

		c.publishReservationStatus(ctx, reservation, previous)
		c.freeTableAfterReservation(ctx, reservation)
	}

	return summary, nil
}

// completionReason evaluates the two independent auto-completion triggers.
// Time expiry applies to any active reservation; the payment trigger only to
// seated ones whose table has no in-flight orders but at least one paid one.
func (c *Coordinator) completionReason(ctx context.Context, reservation *Reservation, now time.Time) (string, error) {
	if now.After(reservation.EndAt) {
		return CompletionReasonTimeExpired, nil
	}

	if reservation.Status != ReservationStatusCheckedIn || reservation.TableID == nil {
		return "", nil
	}

	occupied, err := c.tableHasActiveOrders(ctx, *reservation.TableID, uuid.Nil)
	if err != nil {
		return "", err
	}
	if occupied {
		return "", nil
	}

	paidCount, err := c.orderRepo.CountPaidByTable(ctx, *reservation.TableID)
	if err != nil {
		return "", err
	}
	if paidCount > 0 {
		return CompletionReasonPaymentCompleted, nil
	}
	return "", nil
}

// freeTableAfterReservation releases the reservation's table if nothing else
// holds it. Best-effort: the reservation is already completed and stays so.
func (c *Coordinator) freeTableAfterReservation(ctx context.Context, reservation *Reservation) {
	if reservation.TableID == nil {
		return
	}

	occupied, err := c.tableHasActiveOrders(ctx, *reservation.TableID, uuid.Nil)
	if err != nil || occupied {
		return
	}

	session, err := c.sessionRepo.GetOpenByTable(ctx, *reservation.TableID)
	if err != nil || session == nil || session.Status == SessionStatusFree {
		return
	}

	session.Status = SessionStatusFree
	session.OrderID = nil
	session.Close()
	if err := c.sessionRepo.Save(ctx, session); err != nil {
		c.logger.Error("cannot free table after reservation",
			"reservation_id", reservation.ID.String(), "error", err)
		return
	}
	fresh := NewTableSession(reservation.VenueID, *reservation.TableID, SessionStatusFree)
	if err := c.sessionRepo.Create(ctx, fresh); err != nil {
		c.logger.Error("cannot reopen session after reservation",
			"reservation_id", reservation.ID.String(), "error", err)
		return
	}
	c.syncFloorState(ctx, reservation.VenueID, *reservation.TableID, SessionStatusFree)
}

func (c *Coordinator) getVenueReservation(ctx context.Context, reservationID, venueID uuid.UUID) (*Reservation, error) {
	reservation, err := c.reservationRepo.Get(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("cannot load reservation: %w", err)
	}
	if reservation == nil || reservation.VenueID != venueID {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}
	return reservation, nil
}
