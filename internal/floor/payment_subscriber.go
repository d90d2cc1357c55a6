package floor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"

	"github.com/plateful/floord/pkg/event"
)

// PaymentSubscriber consumes settlement events from the payment gateway
// and records them against orders. MarkPaid is idempotent, so the
// at-least-once delivery of the gateway topic is safe to replay.
type PaymentSubscriber struct {
	subscriber  events.Subscriber
	coordinator *Coordinator
	logger      aqm.Logger
}

func NewPaymentSubscriber(sub events.Subscriber, coordinator *Coordinator, logger aqm.Logger) *PaymentSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &PaymentSubscriber{
		subscriber:  sub,
		coordinator: coordinator,
		logger:      logger,
	}
}

func (s *PaymentSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting payment subscriber", "topic", event.PaymentConfirmedTopic)
	if s.subscriber == nil {
		return fmt.Errorf("payment subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.PaymentConfirmedTopic, s.handleEvent)
}

// handleEvent returns nil for malformed or stale messages; a redelivery
// would fail the same way, so they are logged and dropped.
func (s *PaymentSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.PaymentConfirmedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid payment event", "error", err)
		return nil
	}
	if evt.EventType != event.EventPaymentConfirmed {
		s.logger.Debug("unknown payment event type", "event_type", evt.EventType)
		return nil
	}

	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Info("invalid order_id in payment event", "order_id", evt.OrderID)
		return nil
	}
	venueID, err := uuid.Parse(evt.VenueID)
	if err != nil {
		s.logger.Info("invalid venue_id in payment event", "venue_id", evt.VenueID)
		return nil
	}

	method := evt.Method
	if method == "" {
		method = "online"
	}

	if _, err := s.coordinator.MarkPaid(ctx, MarkPaidInput{
		OrderID:     orderID,
		VenueID:     venueID,
		Method:      method,
		CollectedBy: evt.Reference,
	}); err != nil {
		s.logger.Info("cannot record gateway payment", "order_id", evt.OrderID, "error", err)
		return nil
	}

	return nil
}
