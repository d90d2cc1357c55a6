package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type CreateTableInput struct {
	VenueID   uuid.UUID
	Label     string
	SeatCount int
}

// CreateTable registers a physical table and opens its initial FREE
// session. Tables are recreated after every daily reset, so this runs at
// least once per venue per day.
func (c *Coordinator) CreateTable(ctx context.Context, in CreateTableInput) (*Table, error) {
	if in.Label == "" {
		return nil, fmt.Errorf("table label is required: %w", ErrInvalidInput)
	}

	table := NewTable()
	table.VenueID = in.VenueID
	table.Label = in.Label
	if in.SeatCount > 0 {
		table.SeatCount = in.SeatCount
	}
	table.BeforeCreate()

	if err := c.tableRepo.Create(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot create table: %w", err)
	}

	session := NewTableSession(in.VenueID, table.ID, SessionStatusFree)
	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot open initial session: %w", err)
	}

	c.syncFloorState(ctx, in.VenueID, table.ID, SessionStatusFree)
	return table, nil
}

// GetTable returns a single venue-scoped table.
func (c *Coordinator) GetTable(ctx context.Context, tableID, venueID uuid.UUID) (*Table, error) {
	return c.getVenueTable(ctx, tableID, venueID)
}

// ListTables returns the venue's tables.
func (c *Coordinator) ListTables(ctx context.Context, venueID uuid.UUID) ([]*Table, error) {
	tables, err := c.tableRepo.List(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	return tables, nil
}

// FloorSnapshot serves the derived table-status map for floor displays.
// It reads the runtime store when available and falls back to the session
// collection otherwise.
func (c *Coordinator) FloorSnapshot(ctx context.Context, venueID uuid.UUID) (map[string]string, error) {
	if c.floorState != nil {
		snapshot, err := c.floorState.Snapshot(ctx, venueID)
		if err == nil && len(snapshot) > 0 {
			return snapshot, nil
		}
		if err != nil {
			c.logger.Debug("floor state unavailable, falling back to sessions", "error", err)
		}
	}

	tables, err := c.tableRepo.List(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	snapshot := make(map[string]string, len(tables))
	for _, table := range tables {
		session, err := c.sessionRepo.GetOpenByTable(ctx, table.ID)
		if err != nil {
			return nil, fmt.Errorf("cannot load session for table %s: %w", table.Label, err)
		}
		status := SessionStatusFree
		if session != nil {
			status = session.Status
		}
		snapshot[table.ID.String()] = status
	}
	return snapshot, nil
}
