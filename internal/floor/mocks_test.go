package floor

import (
	"context"
	"sync"

	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	Published   []PublishedMsg
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type PublishedMsg struct {
	Topic string
	Msg   []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedMsg{Topic: topic, Msg: msg})
	return nil
}

func (m *MockPublisher) TopicCount(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.Published {
		if p.Topic == topic {
			count++
		}
	}
	return count
}

// MockSubscriber is a mock implementation of events.Subscriber for testing
type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}

// The map-backed repos below store and return copies, the way a real store
// decodes every read into a fresh struct. Handing out the stored pointer
// would let coordinator mutations leak into the "persisted" state before
// Save runs, which breaks every conditional-write check.

func cloneOrder(o *Order) *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	return &cp
}

func cloneTicket(t *KitchenTicket) *KitchenTicket {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneTable(t *Table) *Table {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneSession(s *TableSession) *TableSession {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func cloneReservation(r *Reservation) *Reservation {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// MockOrderRepo is a mock implementation of OrderRepo for testing
type MockOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order

	CreateFunc         func(ctx context.Context, order *Order) error
	GetFunc            func(ctx context.Context, id uuid.UUID) (*Order, error)
	SaveFunc           func(ctx context.Context, order *Order) error
	SaveWithStatusFunc func(ctx context.Context, order *Order, expectedStatus string) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		orders: make(map[uuid.UUID]*Order),
	}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneOrder(m.orders[id]), nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) SaveWithStatus(ctx context.Context, order *Order, expectedStatus string) error {
	if m.SaveWithStatusFunc != nil {
		return m.SaveWithStatusFunc(ctx, order, expectedStatus)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok || stored.Status != expectedStatus {
		return ErrPreconditionFailed
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) ListByTable(ctx context.Context, tableID uuid.UUID) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if o.TableID != nil && *o.TableID == tableID {
			result = append(result, cloneOrder(o))
		}
	}
	return result, nil
}

func (m *MockOrderRepo) ListByVenueStatuses(ctx context.Context, venueID uuid.UUID, statuses []string) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var result []*Order
	for _, o := range m.orders {
		if o.VenueID == venueID && wanted[o.Status] {
			result = append(result, cloneOrder(o))
		}
	}
	return result, nil
}

func (m *MockOrderRepo) CountPaidByTable(ctx context.Context, tableID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, o := range m.orders {
		if o.TableID != nil && *o.TableID == tableID && o.PaymentStatus == PaymentStatusPaid {
			count++
		}
	}
	return count, nil
}

func (m *MockOrderRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, o := range m.orders {
		if o.VenueID == venueID {
			delete(m.orders, id)
			count++
		}
	}
	return count, nil
}

// MockTicketRepo is a mock implementation of TicketRepo for testing
type MockTicketRepo struct {
	mu      sync.RWMutex
	tickets map[uuid.UUID]*KitchenTicket

	CreateFunc func(ctx context.Context, ticket *KitchenTicket) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*KitchenTicket, error)
	SaveFunc   func(ctx context.Context, ticket *KitchenTicket) error
}

func NewMockTicketRepo() *MockTicketRepo {
	return &MockTicketRepo{
		tickets: make(map[uuid.UUID]*KitchenTicket),
	}
}

func (m *MockTicketRepo) Create(ctx context.Context, ticket *KitchenTicket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (m *MockTicketRepo) Get(ctx context.Context, id uuid.UUID) (*KitchenTicket, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTicket(m.tickets[id]), nil
}

func (m *MockTicketRepo) Save(ctx context.Context, ticket *KitchenTicket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, ticket)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (m *MockTicketRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*KitchenTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*KitchenTicket
	for _, t := range m.tickets {
		if t.OrderID == orderID {
			result = append(result, cloneTicket(t))
		}
	}
	return result, nil
}

func (m *MockTicketRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, t := range m.tickets {
		if t.VenueID == venueID {
			delete(m.tickets, id)
			count++
		}
	}
	return count, nil
}

// MockTableRepo is a mock implementation of TableRepo for testing
type MockTableRepo struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*Table

	GetFunc  func(ctx context.Context, id uuid.UUID) (*Table, error)
	SaveFunc func(ctx context.Context, table *Table) error
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = cloneTable(table)
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*Table, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTable(m.tables[id]), nil
}

func (m *MockTableRepo) Save(ctx context.Context, table *Table) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = cloneTable(table)
	return nil
}

func (m *MockTableRepo) List(ctx context.Context, venueID uuid.UUID) ([]*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Table
	for _, t := range m.tables {
		if t.VenueID == venueID {
			result = append(result, cloneTable(t))
		}
	}
	return result, nil
}

func (m *MockTableRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, t := range m.tables {
		if t.VenueID == venueID {
			delete(m.tables, id)
			count++
		}
	}
	return count, nil
}

// MockSessionRepo is a mock implementation of SessionRepo for testing
type MockSessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*TableSession

	CreateFunc func(ctx context.Context, session *TableSession) error
	SaveFunc   func(ctx context.Context, session *TableSession) error
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{
		sessions: make(map[uuid.UUID]*TableSession),
	}
}

func (m *MockSessionRepo) Create(ctx context.Context, session *TableSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MockSessionRepo) Save(ctx context.Context, session *TableSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MockSessionRepo) GetOpenByTable(ctx context.Context, tableID uuid.UUID) (*TableSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.TableID == tableID && s.ClosedAt == nil {
			return cloneSession(s), nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) GetOpenByOrder(ctx context.Context, orderID uuid.UUID) (*TableSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.OrderID != nil && *s.OrderID == orderID && s.ClosedAt == nil {
			return cloneSession(s), nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, s := range m.sessions {
		if s.VenueID == venueID {
			delete(m.sessions, id)
			count++
		}
	}
	return count, nil
}

// MockReservationRepo is a mock implementation of ReservationRepo for testing
type MockReservationRepo struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*Reservation

	GetFunc  func(ctx context.Context, id uuid.UUID) (*Reservation, error)
	SaveFunc func(ctx context.Context, reservation *Reservation) error
}

func NewMockReservationRepo() *MockReservationRepo {
	return &MockReservationRepo{
		reservations: make(map[uuid.UUID]*Reservation),
	}
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (m *MockReservationRepo) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneReservation(m.reservations[id]), nil
}

func (m *MockReservationRepo) Save(ctx context.Context, reservation *Reservation) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, reservation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (m *MockReservationRepo) List(ctx context.Context, venueID uuid.UUID) ([]*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Reservation
	for _, r := range m.reservations {
		if r.VenueID == venueID {
			result = append(result, cloneReservation(r))
		}
	}
	return result, nil
}

func (m *MockReservationRepo) ListByVenueStatuses(ctx context.Context, venueID uuid.UUID, statuses []string) ([]*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var result []*Reservation
	for _, r := range m.reservations {
		if r.VenueID == venueID && wanted[r.Status] {
			result = append(result, cloneReservation(r))
		}
	}
	return result, nil
}

// MockFloorStateStore is a mock implementation of FloorStateStore for testing
type MockFloorStateStore struct {
	mu     sync.RWMutex
	venues map[uuid.UUID]map[string]string
}

func NewMockFloorStateStore() *MockFloorStateStore {
	return &MockFloorStateStore{
		venues: make(map[uuid.UUID]map[string]string),
	}
}

func (m *MockFloorStateStore) SetTableStatus(ctx context.Context, venueID, tableID uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.venues[venueID] == nil {
		m.venues[venueID] = make(map[string]string)
	}
	m.venues[venueID][tableID.String()] = status
	return nil
}

func (m *MockFloorStateStore) Snapshot(ctx context.Context, venueID uuid.UUID) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make(map[string]string, len(m.venues[venueID]))
	for k, v := range m.venues[venueID] {
		snapshot[k] = v
	}
	return snapshot, nil
}

func (m *MockFloorStateStore) Clear(ctx context.Context, venueID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.venues, venueID)
	return nil
}

// newTestCoordinator wires a coordinator against fresh fakes.
func newTestCoordinator() (*Coordinator, *testFixtures) {
	f := &testFixtures{
		orders:       NewMockOrderRepo(),
		tickets:      NewMockTicketRepo(),
		tables:       NewMockTableRepo(),
		sessions:     NewMockSessionRepo(),
		reservations: NewMockReservationRepo(),
		floorState:   NewMockFloorStateStore(),
		publisher:    NewMockPublisher(),
	}
	c := NewCoordinator(CoordinatorDeps{
		Repos: Repos{
			OrderRepo:       f.orders,
			TicketRepo:      f.tickets,
			TableRepo:       f.tables,
			SessionRepo:     f.sessions,
			ReservationRepo: f.reservations,
		},
		FloorState: f.floorState,
		Publisher:  f.publisher,
	}, nil)
	return c, f
}

type testFixtures struct {
	orders       *MockOrderRepo
	tickets      *MockTicketRepo
	tables       *MockTableRepo
	sessions     *MockSessionRepo
	reservations *MockReservationRepo
	floorState   *MockFloorStateStore
	publisher    *MockPublisher
}
