package floor

import (
	"context"
	"strings"
)

func ValidatePlaceOrder(ctx context.Context, req PlaceOrderRequest) []string {
	var errors []string

	if req.TableID == nil && strings.TrimSpace(req.CounterLabel) == "" {
		errors = append(errors, "table_id or counter_label is required")
	}

	if len(req.Items) == 0 {
		errors = append(errors, "at least one item is required")
	}

	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			errors = append(errors, "item name is required")
		}
		if item.Quantity <= 0 {
			errors = append(errors, "item quantity must be greater than 0")
		}
		if item.UnitPrice.IsNegative() {
			errors = append(errors, "item unit_price cannot be negative")
		}
	}

	if req.PaymentMode != "" {
		switch req.PaymentMode {
		case PaymentModeOnline, PaymentModePayAtTill, PaymentModePayLater:
		default:
			errors = append(errors, "invalid payment_mode")
		}
	}

	return errors
}

func ValidateBulkTicketUpdate(ctx context.Context, req BulkTicketUpdateRequest) []string {
	var errors []string

	if len(req.TicketIDs) == 0 {
		errors = append(errors, "ticket_ids is required")
	}

	if !ValidTicketStatus(req.Status) {
		errors = append(errors, "invalid status")
	}

	return errors
}

func ValidateReservationCreate(ctx context.Context, req ReservationCreateRequest) []string {
	var errors []string

	if req.PartySize <= 0 {
		errors = append(errors, "party_size must be greater than 0")
	}

	if strings.TrimSpace(req.ContactName) == "" {
		errors = append(errors, "contact_name is required")
	}

	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		errors = append(errors, "start_at and end_at are required")
	} else if !req.EndAt.After(req.StartAt) {
		errors = append(errors, "end_at must be after start_at")
	}

	return errors
}
