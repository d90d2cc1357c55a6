package floor

import (
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// DefaultSeatCount is restored when a table is unmerged and no explicit
// seat count survives from before the merge.
const DefaultSeatCount = 4

// MergeLabelSeparator joins the two labels of a merged pair ("5+6").
const MergeLabelSeparator = "+"

type Table struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	VenueID   uuid.UUID `json:"venue_id" bson:"venue_id"`
	Label     string    `json:"label" bson:"label"`
	SeatCount int       `json:"seat_count" bson:"seat_count"`
	// MergedWithTableID and PreMergeLabel are cleared on unmerge, so their
	// bson tags must not carry omitempty: a $set save has to write the nil
	// back or the stored value survives.
	MergedWithTableID *uuid.UUID `json:"merged_with_table_id,omitempty" bson:"merged_with_table_id"`
	PreMergeLabel     string     `json:"pre_merge_label,omitempty" bson:"pre_merge_label"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" bson:"updated_at"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable() *Table {
	return &Table{
		ID:        aqm.GenerateNewID(),
		SeatCount: DefaultSeatCount,
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = aqm.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

// IsMergedSecondary reports whether this table is the secondary member of a
// merged pair. Merge depth is a single level: a secondary table can never be
// the primary of another merge.
func (t *Table) IsMergedSecondary() bool {
	return t.MergedWithTableID != nil && *t.MergedWithTableID != uuid.Nil
}

// BaseLabel strips the merge suffix from a merged primary's label, restoring
// the label it carried before the merge. Non-merged labels pass through.
func (t *Table) BaseLabel() string {
	if idx := strings.Index(t.Label, MergeLabelSeparator); idx > 0 {
		return t.Label[:idx]
	}
	return t.Label
}
