package floor

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Preparation progress and payment are independent axes:
// an order can be IN_PREP and UNPAID at the same time (pay-later flows).
const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusAccepted  = "ACCEPTED"
	OrderStatusInPrep    = "IN_PREP"
	OrderStatusReady     = "READY"
	OrderStatusServing   = "SERVING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRefunded  = "REFUNDED"
	OrderStatusExpired   = "EXPIRED"
)

const (
	PaymentStatusUnpaid   = "UNPAID"
	PaymentStatusPaid     = "PAID"
	PaymentStatusTill     = "TILL"
	PaymentStatusRefunded = "REFUNDED"
)

const (
	PaymentModeOnline    = "online"
	PaymentModePayAtTill = "pay_at_till"
	PaymentModePayLater  = "pay_later"
)

// ActiveOrderStatuses are the statuses that keep a table occupied.
var ActiveOrderStatuses = []string{
	OrderStatusPlaced,
	OrderStatusAccepted,
	OrderStatusInPrep,
	OrderStatusReady,
	OrderStatusServing,
}

// orderTransitions lists the allowed previous statuses for each forward
// transition target. CANCELLED and REFUNDED are reachable from any
// non-terminal status; EXPIRED only from the two earliest ones.
var orderTransitions = map[string][]string{
	OrderStatusAccepted:  {OrderStatusPlaced},
	OrderStatusInPrep:    {OrderStatusAccepted},
	OrderStatusReady:     {OrderStatusInPrep},
	OrderStatusServing:   {OrderStatusReady},
	OrderStatusCompleted: {OrderStatusServing},
	OrderStatusCancelled: ActiveOrderStatuses,
	OrderStatusRefunded:  ActiveOrderStatuses,
	OrderStatusExpired:   {OrderStatusPlaced, OrderStatusAccepted},
}

// ValidOrderTransition reports whether an order currently in fromStatus may
// move to toStatus.
func ValidOrderTransition(fromStatus, toStatus string) bool {
	allowed, ok := orderTransitions[toStatus]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

// IsActiveOrderStatus reports whether the status counts as "in flight" for
// table occupancy and reset sweeps.
func IsActiveOrderStatus(status string) bool {
	for _, s := range ActiveOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type OrderItem struct {
	Name         string          `json:"name" bson:"name"`
	Quantity     int             `json:"quantity" bson:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" bson:"unit_price"`
	Instructions string          `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Station      string          `json:"station,omitempty" bson:"station,omitempty"`
}

type Order struct {
	ID            uuid.UUID       `json:"id" bson:"_id"`
	VenueID       uuid.UUID       `json:"venue_id" bson:"venue_id"`
	Status        string          `json:"status" bson:"status"`
	PaymentStatus string          `json:"payment_status" bson:"payment_status"`
	PaymentMode   string          `json:"payment_mode" bson:"payment_mode"`
	PaymentMethod string          `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	CollectedBy   string          `json:"collected_by,omitempty" bson:"collected_by,omitempty"`
	TableID       *uuid.UUID      `json:"table_id,omitempty" bson:"table_id,omitempty"`
	TableNumber   string          `json:"table_number,omitempty" bson:"table_number,omitempty"`
	CounterLabel  string          `json:"counter_label,omitempty" bson:"counter_label,omitempty"`
	Items         []OrderItem     `json:"items" bson:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount" bson:"total_amount"`
	ForcedBy      string          `json:"forced_by,omitempty" bson:"forced_by,omitempty"`
	ForcedReason  string          `json:"forced_reason,omitempty" bson:"forced_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:            aqm.GenerateNewID(),
		Status:        OrderStatusPlaced,
		PaymentStatus: PaymentStatusUnpaid,
		Items:         []OrderItem{},
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = aqm.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

// Total recomputes the order total from its line items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// IsDineIn reports whether the order is attached to a physical table rather
// than a counter.
func (o *Order) IsDineIn() bool {
	return o.TableID != nil && *o.TableID != uuid.Nil
}

func (o *Order) MarkPaid(method, collectedBy string) {
	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentMethod = method
	o.CollectedBy = collectedBy
	o.PaidAt = &now
	o.UpdatedAt = now
}

func (o *Order) Complete() {
	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
}

func (o *Order) Cancel() {
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
}

func (o *Order) Refund() {
	o.Status = OrderStatusRefunded
	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
}

func (o *Order) Expire() {
	o.Status = OrderStatusExpired
	o.UpdatedAt = time.Now()
}
