package floor

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Instructions string          `json:"instructions,omitempty"`
	Station      string          `json:"station,omitempty"`
}

type PlaceOrderRequest struct {
	TableID      *uuid.UUID         `json:"table_id,omitempty"`
	CounterLabel string             `json:"counter_label,omitempty"`
	PaymentMode  string             `json:"payment_mode,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}

type CompleteOrderRequest struct {
	Forced       bool   `json:"forced,omitempty"`
	ForcedReason string `json:"forced_reason,omitempty"`
}

type PayOrderRequest struct {
	Method string `json:"method"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status"`
}

type BulkTicketUpdateRequest struct {
	TicketIDs []uuid.UUID `json:"ticket_ids"`
	Status    string      `json:"status"`
	OrderID   *uuid.UUID  `json:"order_id,omitempty"`
}

type TableCreateRequest struct {
	Label     string `json:"label"`
	SeatCount int    `json:"seat_count,omitempty"`
}

type OpenSessionRequest struct {
	CustomerName string `json:"customer_name,omitempty"`
	PartySize    int    `json:"party_size,omitempty"`
}

type MergeTablesRequest struct {
	TableA uuid.UUID `json:"table_a"`
	TableB uuid.UUID `json:"table_b"`
}

type ReservationCreateRequest struct {
	TableID     *uuid.UUID `json:"table_id,omitempty"`
	PartySize   int        `json:"party_size"`
	ContactName string     `json:"contact_name"`
	ContactInfo string     `json:"contact_info,omitempty"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	Notes       string     `json:"notes,omitempty"`
}

type CheckInRequest struct {
	TableID uuid.UUID `json:"table_id"`
}

type ResetRequest struct {
	Force bool `json:"force,omitempty"`
}
