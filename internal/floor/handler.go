package floor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

// Headers established by the authenticating gateway. The coordinator never
// reads these implicitly; routes parse them into explicit inputs.
const (
	HeaderVenueID = "X-Venue-ID"
	HeaderUserID  = "X-User-ID"
	HeaderRole    = "X-Role"
)

type Handler struct {
	coordinator *Coordinator
	logger      aqm.Logger
	config      *aqm.Config
	tlm         *telemetry.HTTP
}

func NewHandler(coordinator *Coordinator, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		coordinator: coordinator,
		logger:      logger,
		config:      config,
		tlm:         telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/tickets", h.ListOrderTickets)
		r.Post("/{id}/complete", h.CompleteOrder)
		r.Post("/{id}/pay", h.PayOrder)
		r.Post("/{id}/advance", h.AdvanceOrder)
		r.Post("/{id}/cancel", h.CancelOrder)
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Post("/bulk-update", h.BulkUpdateTickets)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Post("/", h.CreateTable)
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)
		r.Get("/floor", h.FloorSnapshot)
		r.Post("/merge", h.MergeTables)
		r.Post("/{id}/sessions", h.OpenSession)
		r.Post("/{id}/unmerge", h.UnmergeTable)
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", h.BookReservation)
		r.Get("/", h.ListReservations)
		r.Post("/auto-complete", h.AutoCompleteReservations)
		r.Post("/{id}/check-in", h.CheckInReservation)
		r.Post("/{id}/cancel", h.CancelReservation)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/reset", h.DailyReset)
	})
}

// Order handlers

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlaceOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	validationErrors := ValidatePlaceOrder(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, "; "))
		return
	}

	items := make([]OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, OrderItem{
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Instructions: item.Instructions,
			Station:      item.Station,
		})
	}

	order, err := h.coordinator.PlaceOrder(ctx, PlaceOrderInput{
		VenueID:      venueID,
		TableID:      req.TableID,
		CounterLabel: req.CounterLabel,
		PaymentMode:  req.PaymentMode,
		Items:        items,
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, order, links...)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.coordinator.GetOrder(ctx, id, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var statuses []string
	if raw := r.URL.Query().Get("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	orders, err := h.coordinator.ListOrders(ctx, venueID, statuses)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondCollection(w, orders, "order")
}

func (h *Handler) ListOrderTickets(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrderTickets")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	tickets, err := h.coordinator.ListOrderTickets(ctx, id, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondCollection(w, tickets, "kitchen-ticket")
}

func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req CompleteOrderRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	order, err := h.coordinator.CompleteOrder(ctx, CompleteOrderInput{
		OrderID:      id,
		VenueID:      venueID,
		Forced:       req.Forced,
		UserID:       r.Header.Get(HeaderUserID),
		Role:         r.Header.Get(HeaderRole),
		ForcedReason: req.ForcedReason,
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PayOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req PayOrderRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	order, err := h.coordinator.MarkPaid(ctx, MarkPaidInput{
		OrderID:     id,
		VenueID:     venueID,
		Method:      req.Method,
		CollectedBy: r.Header.Get(HeaderUserID),
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdvanceOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req AdvanceOrderRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.Status == "" {
		aqm.RespondError(w, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.coordinator.AdvanceOrder(ctx, id, venueID, req.Status)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.coordinator.CancelOrder(ctx, id, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

// Kitchen ticket handlers

func (h *Handler) BulkUpdateTickets(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BulkUpdateTickets")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var req BulkTicketUpdateRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	validationErrors := ValidateBulkTicketUpdate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, "; "))
		return
	}

	tickets, err := h.coordinator.BulkUpdateTickets(ctx, BulkTicketUpdateInput{
		TicketIDs: req.TicketIDs,
		VenueID:   venueID,
		Status:    req.Status,
		OrderID:   req.OrderID,
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondCollection(w, tickets, "kitchen-ticket")
}

// Table handlers

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var req TableCreateRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	table, err := h.coordinator.CreateTable(ctx, CreateTableInput{
		VenueID:   venueID,
		Label:     req.Label,
		SeatCount: req.SeatCount,
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, table, links...)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	tables, err := h.coordinator.ListTables(ctx, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondCollection(w, tables, "table")
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.coordinator.GetTable(ctx, id, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	aqm.RespondSuccess(w, table, links...)
}

func (h *Handler) FloorSnapshot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FloorSnapshot")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	snapshot, err := h.coordinator.FloorSnapshot(ctx, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"tables": snapshot,
	}, nil)
}

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	session, err := h.coordinator.OpenSession(ctx, OpenSessionInput{
		TableID:      id,
		VenueID:      venueID,
		CustomerName: req.CustomerName,
		PartySize:    req.PartySize,
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(session)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, session, links...)
}

func (h *Handler) MergeTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MergeTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var req MergeTablesRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.TableA == uuid.Nil || req.TableB == uuid.Nil {
		aqm.RespondError(w, http.StatusBadRequest, "table_a and table_b are required")
		return
	}

	result, err := h.coordinator.MergeTables(ctx, venueID, req.TableA, req.TableB)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondSuccess(w, result)
}

func (h *Handler) UnmergeTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UnmergeTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	result, err := h.coordinator.UnmergeTable(ctx, id)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondSuccess(w, result)
}

// Reservation handlers

func (h *Handler) BookReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BookReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var req ReservationCreateRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	validationErrors := ValidateReservationCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, "; "))
		return
	}

	reservation, err := h.coordinator.BookReservation(ctx, BookReservationInput{
		VenueID:     venueID,
		TableID:     req.TableID,
		PartySize:   req.PartySize,
		ContactName: req.ContactName,
		ContactInfo: req.ContactInfo,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(reservation)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, reservation, links...)
}

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListReservations")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	reservations, err := h.coordinator.ListReservations(ctx, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondCollection(w, reservations, "reservation")
}

func (h *Handler) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CheckInReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req CheckInRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.TableID == uuid.Nil {
		aqm.RespondError(w, http.StatusBadRequest, "table_id is required")
		return
	}

	reservation, err := h.coordinator.CheckInReservation(ctx, id, venueID, req.TableID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(reservation)
	aqm.RespondSuccess(w, reservation, links...)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	reservation, err := h.coordinator.CancelReservation(ctx, id, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	links := aqm.RESTfulLinksFor(reservation)
	aqm.RespondSuccess(w, reservation, links...)
}

func (h *Handler) AutoCompleteReservations(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AutoCompleteReservations")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	summary, err := h.coordinator.AutoCompleteReservations(ctx, venueID)
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondSuccess(w, summary)
}

// Admin handlers

func (h *Handler) DailyReset(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DailyReset")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	venueID, ok := h.parseVenue(w, r, log)
	if !ok {
		return
	}

	var req ResetRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	summary, err := h.coordinator.DailyReset(ctx, DailyResetInput{
		VenueID: venueID,
		Force:   req.Force,
		Role:    r.Header.Get(HeaderRole),
		UserID:  r.Header.Get(HeaderUserID),
	})
	if err != nil {
		h.respondCoordinatorError(w, log, err)
		return
	}

	aqm.RespondSuccess(w, summary)
}

// Helper methods

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) parseVenue(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
	venueStr := r.Header.Get(HeaderVenueID)
	if venueStr == "" {
		log.Debug("missing venue header")
		aqm.RespondError(w, http.StatusBadRequest, "Missing venue id")
		return uuid.Nil, false
	}

	venueID, err := uuid.Parse(venueStr)
	if err != nil {
		log.Debug("invalid venue header", "venue_id", venueStr, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid venue id")
		return uuid.Nil, false
	}

	return venueID, true
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, log aqm.Logger, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

// respondCoordinatorError maps the coordinator failure taxonomy to HTTP
// statuses. The wrapped message is surfaced so staff UIs can explain why an
// action was blocked.
func (h *Handler) respondCoordinatorError(w http.ResponseWriter, log aqm.Logger, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		aqm.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPreconditionFailed), errors.Is(err, ErrInvalidTransition):
		aqm.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		aqm.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidInput):
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("coordinator operation failed", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
