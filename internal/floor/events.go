package floor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/plateful/floord/pkg/event"
)

const eventSource = "floord"

// publish marshals and sends one event. Event delivery is a best-effort
// ripple of an already committed transition; failures are logged, never
// returned.
func (c *Coordinator) publish(ctx context.Context, topic string, payload interface{}) {
	if c.publisher == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("cannot marshal event", "topic", topic, "error", err)
		return
	}
	if err := c.publisher.Publish(ctx, topic, msg); err != nil {
		c.logger.Error("cannot publish event", "topic", topic, "error", err)
	}
}

func (c *Coordinator) publishOrderStatus(ctx context.Context, order *Order, previous string, forced bool, reason string) {
	evt := event.OrderStatusEvent{
		EventType:      event.EventOrderStatusChanged,
		OrderID:        order.ID.String(),
		VenueID:        order.VenueID.String(),
		Status:         order.Status,
		PreviousStatus: previous,
		Forced:         forced,
		Reason:         reason,
		Source:         eventSource,
		OccurredAt:     time.Now().UTC(),
	}
	if order.TableID != nil {
		evt.TableID = order.TableID.String()
	}
	c.publish(ctx, event.OrderStatusTopic, evt)
}

func (c *Coordinator) publishOrderPayment(ctx context.Context, order *Order) {
	c.publish(ctx, event.OrderStatusTopic, event.OrderPaymentEvent{
		EventType:     event.EventOrderPaymentRecorded,
		OrderID:       order.ID.String(),
		VenueID:       order.VenueID.String(),
		PaymentStatus: order.PaymentStatus,
		Method:        order.PaymentMethod,
		CollectedBy:   order.CollectedBy,
		OccurredAt:    time.Now().UTC(),
	})
}

func (c *Coordinator) publishTicketStatus(ctx context.Context, ticket *KitchenTicket, previous string) {
	c.publish(ctx, event.KitchenTicketsTopic, event.KitchenTicketStatusEvent{
		EventType:      event.EventKitchenTicketStatusChange,
		TicketID:       ticket.ID.String(),
		OrderID:        ticket.OrderID.String(),
		VenueID:        ticket.VenueID.String(),
		Station:        ticket.Station,
		NewStatus:      ticket.Status,
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	})
}

func (c *Coordinator) publishOrderReady(ctx context.Context, order *Order, ticketCount int) {
	c.publish(ctx, event.KitchenTicketsTopic, event.KitchenOrderReadyEvent{
		EventType:   event.EventKitchenOrderReady,
		OrderID:     order.ID.String(),
		VenueID:     order.VenueID.String(),
		TicketCount: ticketCount,
		OccurredAt:  time.Now().UTC(),
	})
}

func (c *Coordinator) publishTableStatus(ctx context.Context, table *Table, status, reason string) {
	c.publish(ctx, event.TableStatusTopic, event.TableStatusEvent{
		EventType:  event.EventTableStatusChanged,
		TableID:    table.ID.String(),
		VenueID:    table.VenueID.String(),
		Status:     status,
		Reason:     reason,
		Source:     eventSource,
		OccurredAt: time.Now().UTC(),
	})
}

func (c *Coordinator) publishTableMerge(ctx context.Context, primary, secondary *Table, merged bool) {
	eventType := event.EventTablesMerged
	if !merged {
		eventType = event.EventTablesUnmerged
	}
	c.publish(ctx, event.TableStatusTopic, event.TableMergeEvent{
		EventType:        eventType,
		VenueID:          primary.VenueID.String(),
		PrimaryTableID:   primary.ID.String(),
		SecondaryTableID: secondary.ID.String(),
		Label:            primary.Label,
		SeatCount:        primary.SeatCount,
		OccurredAt:       time.Now().UTC(),
	})
}

func (c *Coordinator) publishReservationStatus(ctx context.Context, reservation *Reservation, previous string) {
	evt := event.ReservationStatusEvent{
		EventType:        event.EventReservationStatusChanged,
		ReservationID:    reservation.ID.String(),
		VenueID:          reservation.VenueID.String(),
		Status:           reservation.Status,
		PreviousStatus:   previous,
		CompletionReason: reservation.CompletionReason,
		OccurredAt:       time.Now().UTC(),
	}
	if reservation.CompletionReason != "" {
		evt.EventType = event.EventReservationAutoCompleted
	}
	if reservation.TableID != nil {
		evt.TableID = reservation.TableID.String()
	}
	c.publish(ctx, event.ReservationStatusTopic, evt)
}

// syncFloorState mirrors a session transition into the derived floor
// snapshot. Best-effort: the snapshot is a read model, not a source of
// truth.
func (c *Coordinator) syncFloorState(ctx context.Context, venueID, tableID uuid.UUID, status string) {
	if c.floorState == nil {
		return
	}
	if err := c.floorState.SetTableStatus(ctx, venueID, tableID, status); err != nil {
		c.logger.Error("cannot sync floor state", "table_id", tableID.String(), "error", err)
	}
}
