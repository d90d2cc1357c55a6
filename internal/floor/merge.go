package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MergeResult reports the table pair after a merge or unmerge.
type MergeResult struct {
	Primary   *Table `json:"primary"`
	Secondary *Table `json:"secondary"`
}

// MergeTables folds table B into table A for a larger party. Both tables
// must exist in the venue and both must have a FREE session. The primary
// takes the combined label and seat count; the secondary points back at the
// primary and its session becomes MERGED rather than closed-and-gone, so
// "current session" lookups still resolve.
func (c *Coordinator) MergeTables(ctx context.Context, venueID, tableAID, tableBID uuid.UUID) (*MergeResult, error) {
	if tableAID == tableBID {
		return nil, fmt.Errorf("cannot merge a table with itself: %w", ErrInvalidInput)
	}

	tableA, err := c.getVenueTable(ctx, tableAID, venueID)
	if err != nil {
		return nil, err
	}
	tableB, err := c.getVenueTable(ctx, tableBID, venueID)
	if err != nil {
		return nil, err
	}
	if tableA.IsMergedSecondary() || tableB.IsMergedSecondary() {
		return nil, fmt.Errorf("merged tables cannot merge again: %w", ErrPreconditionFailed)
	}

	sessionA, err := c.sessionRepo.GetOpenByTable(ctx, tableA.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot load session for table %s: %w", tableA.Label, err)
	}
	sessionB, err := c.sessionRepo.GetOpenByTable(ctx, tableB.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot load session for table %s: %w", tableB.Label, err)
	}
	if sessionA == nil || sessionA.Status != SessionStatusFree ||
		sessionB == nil || sessionB.Status != SessionStatusFree {
		return nil, fmt.Errorf("both tables must be FREE to merge: %w", ErrPreconditionFailed)
	}

	tableA.PreMergeLabel = tableA.Label
	tableA.Label = tableA.Label + MergeLabelSeparator + tableB.Label
	tableA.SeatCount += tableB.SeatCount
	tableA.BeforeUpdate()
	if err := c.tableRepo.Save(ctx, tableA); err != nil {
		return nil, fmt.Errorf("cannot update primary table: %w", err)
	}

	tableB.MergedWithTableID = &tableA.ID
	tableB.BeforeUpdate()
	if err := c.tableRepo.Save(ctx, tableB); err != nil {
		return nil, fmt.Errorf("cannot update secondary table: %w", err)
	}

	// Sessions go last so a reader never sees MERGED sessions on tables that
	// do not yet reference each other.
	sessionB.Close()
	if err := c.sessionRepo.Save(ctx, sessionB); err != nil {
		return nil, fmt.Errorf("cannot close secondary session: %w", err)
	}
	mergedB := NewTableSession(venueID, tableB.ID, SessionStatusMerged)
	if err := c.sessionRepo.Create(ctx, mergedB); err != nil {
		return nil, fmt.Errorf("cannot open merged session: %w", err)
	}

	sessionA.Status = SessionStatusMerged
	if err := c.sessionRepo.Save(ctx, sessionA); err != nil {
		return nil, fmt.Errorf("cannot mark primary session merged: %w", err)
	}

	c.syncFloorState(ctx, venueID, tableA.ID, SessionStatusMerged)
	c.syncFloorState(ctx, venueID, tableB.ID, SessionStatusMerged)
	c.publishTableMerge(ctx, tableA, tableB, true)

	return &MergeResult{Primary: tableA, Secondary: tableB}, nil
}

// UnmergeTable reverses a merge given the secondary table. The primary gets
// its pre-merge label back and its seat count drops by the secondary's
// share, which restores both tables exactly as they were before the merge.
// Fresh FREE sessions replace the MERGED ones on both sides.
func (c *Coordinator) UnmergeTable(ctx context.Context, secondaryTableID uuid.UUID) (*MergeResult, error) {
	tableB, err := c.tableRepo.Get(ctx, secondaryTableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if tableB == nil {
		return nil, fmt.Errorf("table %s: %w", secondaryTableID, ErrNotFound)
	}
	if !tableB.IsMergedSecondary() {
		return nil, fmt.Errorf("table %s is not merged: %w", tableB.Label, ErrPreconditionFailed)
	}

	tableA, err := c.tableRepo.Get(ctx, *tableB.MergedWithTableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load primary table: %w", err)
	}
	if tableA == nil {
		return nil, fmt.Errorf("primary table %s: %w", tableB.MergedWithTableID, ErrNotFound)
	}

	// The stored pre-merge label restores exactly; deriving it from the
	// merged label would truncate labels that themselves contain the
	// separator. Older documents without the field fall back to stripping.
	if tableA.PreMergeLabel != "" {
		tableA.Label = tableA.PreMergeLabel
	} else {
		tableA.Label = tableA.BaseLabel()
	}
	tableA.PreMergeLabel = ""
	tableA.SeatCount -= tableB.SeatCount
	if tableA.SeatCount <= 0 {
		tableA.SeatCount = DefaultSeatCount
	}
	tableA.BeforeUpdate()
	if err := c.tableRepo.Save(ctx, tableA); err != nil {
		return nil, fmt.Errorf("cannot restore primary table: %w", err)
	}

	tableB.MergedWithTableID = nil
	tableB.BeforeUpdate()
	if err := c.tableRepo.Save(ctx, tableB); err != nil {
		return nil, fmt.Errorf("cannot restore secondary table: %w", err)
	}

	for _, tableID := range []uuid.UUID{tableA.ID, tableB.ID} {
		session, err := c.sessionRepo.GetOpenByTable(ctx, tableID)
		if err != nil {
			return nil, fmt.Errorf("cannot load merged session: %w", err)
		}
		if session != nil {
			session.Close()
			if err := c.sessionRepo.Save(ctx, session); err != nil {
				return nil, fmt.Errorf("cannot close merged session: %w", err)
			}
		}
		fresh := NewTableSession(tableA.VenueID, tableID, SessionStatusFree)
		if err := c.sessionRepo.Create(ctx, fresh); err != nil {
			return nil, fmt.Errorf("cannot open fresh session: %w", err)
		}
		c.syncFloorState(ctx, tableA.VenueID, tableID, SessionStatusFree)
	}

	c.publishTableMerge(ctx, tableA, tableB, false)
	return &MergeResult{Primary: tableA, Secondary: tableB}, nil
}
