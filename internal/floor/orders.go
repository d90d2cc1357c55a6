package floor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PlaceOrderInput describes a new order. Exactly one of TableID or
// CounterLabel identifies where the order is served.
type PlaceOrderInput struct {
	VenueID      uuid.UUID
	TableID      *uuid.UUID
	CounterLabel string
	PaymentMode  string
	Items        []OrderItem
}

// CompleteOrderInput carries the explicit authorization inputs for order
// completion. Forced completions require a privileged role and an audit
// reason.
type CompleteOrderInput struct {
	OrderID      uuid.UUID
	VenueID      uuid.UUID
	Forced       bool
	UserID       string
	Role         string
	ForcedReason string
}

type MarkPaidInput struct {
	OrderID     uuid.UUID
	VenueID     uuid.UUID
	Method      string
	CollectedBy string
}

var paymentMethods = map[string]bool{
	"cash":   true,
	"card":   true,
	"online": true,
}

// PlaceOrder creates an order and, for dine-in orders, binds it to the
// table's current session. A table whose session already carries an open
// order cannot take a second one.
func (c *Coordinator) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("order needs at least one item: %w", ErrInvalidInput)
	}
	if in.TableID == nil && in.CounterLabel == "" {
		return nil, fmt.Errorf("order needs a table or a counter: %w", ErrInvalidInput)
	}

	order := NewOrder()
	order.VenueID = in.VenueID
	order.CounterLabel = in.CounterLabel
	order.PaymentMode = in.PaymentMode
	if order.PaymentMode == "" {
		order.PaymentMode = PaymentModePayLater
	}
	order.Items = in.Items
	order.TotalAmount = order.Total()

	if in.TableID != nil {
		table, err := c.getVenueTable(ctx, *in.TableID, in.VenueID)
		if err != nil {
			return nil, err
		}
		session, err := c.sessionRepo.GetOpenByTable(ctx, table.ID)
		if err != nil {
			return nil, fmt.Errorf("cannot load table session: %w", err)
		}
		if session != nil && session.OrderID != nil {
			return nil, fmt.Errorf("table %s already has an open order: %w", table.Label, ErrPreconditionFailed)
		}

		order.TableID = &table.ID
		order.TableNumber = table.Label

		if session == nil {
			session = NewTableSession(in.VenueID, table.ID, SessionStatusOrdering)
			session.OrderID = &order.ID
			if err := c.sessionRepo.Create(ctx, session); err != nil {
				return nil, fmt.Errorf("cannot open table session: %w", err)
			}
		} else {
			session.Status = SessionStatusOrdering
			session.OrderID = &order.ID
			if err := c.sessionRepo.Save(ctx, session); err != nil {
				return nil, fmt.Errorf("cannot bind order to table session: %w", err)
			}
		}
		c.syncFloorState(ctx, in.VenueID, table.ID, SessionStatusOrdering)
	}

	order.BeforeCreate()
	if err := c.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot create order: %w", err)
	}

	c.publishOrderStatus(ctx, order, "", false, "order.placed")
	return order, nil
}

// GetOrder returns a single venue-scoped order.
func (c *Coordinator) GetOrder(ctx context.Context, orderID, venueID uuid.UUID) (*Order, error) {
	return c.getVenueOrder(ctx, orderID, venueID)
}

// ListOrders returns the venue's orders in the given statuses; with no
// filter it returns the active board (everything not yet terminal).
func (c *Coordinator) ListOrders(ctx context.Context, venueID uuid.UUID, statuses []string) ([]*Order, error) {
	if len(statuses) == 0 {
		statuses = ActiveOrderStatuses
	}

	orders, err := c.orderRepo.ListByVenueStatuses(ctx, venueID, statuses)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}

	return orders, nil
}

// AdvanceOrder moves an order one step along the staff path
// (ACCEPTED, IN_PREP, READY, SERVING) or to a cancellation state. The write
// is conditioned on the status that was just read, so two racing staff
// actions cannot both apply.
func (c *Coordinator) AdvanceOrder(ctx context.Context, orderID, venueID uuid.UUID, target string) (*Order, error) {
	order, err := c.getVenueOrder(ctx, orderID, venueID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		return order, nil
	}
	if !ValidOrderTransition(order.Status, target) {
		return nil, fmt.Errorf("order cannot move from %s to %s: %w", order.Status, target, ErrInvalidTransition)
	}

	previous := order.Status
	order.Status = target
	switch target {
	case OrderStatusCancelled:
		order.Cancel()
	case OrderStatusRefunded:
		order.Refund()
	case OrderStatusExpired:
		order.Expire()
	default:
		order.BeforeUpdate()
	}

	if err := c.orderRepo.SaveWithStatus(ctx, order, previous); err != nil {
		return nil, err
	}

	if target == OrderStatusInPrep {
		if err := c.spawnTickets(ctx, order); err != nil {
			c.logger.Error("cannot spawn kitchen tickets", "order_id", order.ID.String(), "error", err)
		}
	}
	if target == OrderStatusCancelled || target == OrderStatusRefunded || target == OrderStatusExpired {
		c.releaseTableForOrder(ctx, order)
	}

	c.publishOrderStatus(ctx, order, previous, false, "order.advanced")
	return order, nil
}

// CancelOrder cancels a non-terminal order and releases its table.
func (c *Coordinator) CancelOrder(ctx context.Context, orderID, venueID uuid.UUID) (*Order, error) {
	return c.AdvanceOrder(ctx, orderID, venueID, OrderStatusCancelled)
}

// CompleteOrder finishes an order. Normal completion requires the order to
// be SERVING and PAID; forced completion bypasses both checks, requires a
// privileged role, and records who forced it and why. Completing an already
// completed order returns the stored record without re-applying side
// effects.
func (c *Coordinator) CompleteOrder(ctx context.Context, in CompleteOrderInput) (*Order, error) {
	order, err := c.getVenueOrder(ctx, in.OrderID, in.VenueID)
	if err != nil {
		return nil, err
	}

	if order.Status == OrderStatusCompleted {
		return order, nil
	}

	if in.Forced {
		if !privilegedRole(in.Role) {
			return nil, fmt.Errorf("forced completion requires an elevated role: %w", ErrForbidden)
		}
		order.ForcedBy = in.UserID
		order.ForcedReason = in.ForcedReason
	} else {
		if order.Status != OrderStatusServing {
			return nil, fmt.Errorf("order must be SERVING before completion, is %s: %w", order.Status, ErrPreconditionFailed)
		}
		if order.PaymentStatus != PaymentStatusPaid {
			return nil, fmt.Errorf("payment must be collected before marking order as COMPLETED: %w", ErrPreconditionFailed)
		}
	}

	previous := order.Status
	order.Complete()

	if err := c.orderRepo.SaveWithStatus(ctx, order, previous); err != nil {
		if errors.Is(err, ErrPreconditionFailed) {
			// Lost the race. If the winner reached the same target state the
			// completion already happened and this call no-ops.
			current, readErr := c.orderRepo.Get(ctx, in.OrderID)
			if readErr == nil && current != nil && current.Status == OrderStatusCompleted {
				return current, nil
			}
		}
		return nil, err
	}

	c.releaseTableForOrder(ctx, order)
	c.publishOrderStatus(ctx, order, previous, in.Forced, in.ForcedReason)
	return order, nil
}

// MarkPaid records payment collection. Calling it again for an already paid
// order succeeds without mutating anything, so retries cannot double-apply
// payment side effects.
func (c *Coordinator) MarkPaid(ctx context.Context, in MarkPaidInput) (*Order, error) {
	if !paymentMethods[in.Method] {
		return nil, fmt.Errorf("unknown payment method %q: %w", in.Method, ErrInvalidInput)
	}

	order, err := c.getVenueOrder(ctx, in.OrderID, in.VenueID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == PaymentStatusPaid {
		return order, nil
	}

	order.MarkPaid(in.Method, in.CollectedBy)
	if err := c.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot record payment: %w", err)
	}

	c.publishOrderPayment(ctx, order)
	return order, nil
}
