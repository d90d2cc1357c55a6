package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plateful/floord/internal/floor"
)

type SessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{
		collection: db.Collection("table_sessions"),
	}
}

func (r *SessionRepo) Create(ctx context.Context, session *floor.TableSession) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("cannot create session: %w", err)
	}

	return nil
}

func (r *SessionRepo) Save(ctx context.Context, session *floor.TableSession) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	filter := bson.M{"_id": session.ID}
	update := bson.M{"$set": session}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update session: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s: %w", session.ID, floor.ErrNotFound)
	}

	return nil
}

// GetOpenByTable returns the table's current session, the single one whose
// closed_at is still unset.
func (r *SessionRepo) GetOpenByTable(ctx context.Context, tableID uuid.UUID) (*floor.TableSession, error) {
	filter := bson.M{
		"table_id":  tableID,
		"closed_at": bson.M{"$exists": false},
	}

	var session floor.TableSession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get open session by table: %w", err)
	}
	return &session, nil
}

func (r *SessionRepo) GetOpenByOrder(ctx context.Context, orderID uuid.UUID) (*floor.TableSession, error) {
	filter := bson.M{
		"order_id":  orderID,
		"closed_at": bson.M{"$exists": false},
	}

	var session floor.TableSession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get open session by order: %w", err)
	}
	return &session, nil
}

func (r *SessionRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"venue_id": venueID})
	if err != nil {
		return 0, fmt.Errorf("cannot delete sessions: %w", err)
	}

	return result.DeletedCount, nil
}
