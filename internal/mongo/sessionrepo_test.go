package mongo

import (
	"testing"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/plateful/floord/internal/floor"
)

// Detaching a finished order sets the session's order reference back to nil;
// the key has to marshal so the {"$set": session} save clears it in the
// stored document instead of leaving the old order id behind.
func TestSessionSaveWritesDetachedOrder(t *testing.T) {
	session := floor.NewTableSession(aqm.GenerateNewID(), aqm.GenerateNewID(), floor.SessionStatusOccupied)
	orderID := aqm.GenerateNewID()
	session.OrderID = &orderID

	session.OrderID = nil

	doc, err := bson.Marshal(session)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if _, err := bson.Raw(doc).LookupErr("order_id"); err != nil {
		t.Error("expected order_id to marshal when detached so the update overwrites the stored value")
	}
}
