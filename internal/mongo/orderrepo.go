package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plateful/floord/internal/floor"
)

type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{
		collection: db.Collection("orders"),
	}
}

func (r *OrderRepo) Create(ctx context.Context, o *floor.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("cannot create order: %w", err)
	}

	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*floor.Order, error) {
	var o floor.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) Save(ctx context.Context, o *floor.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	filter := bson.M{"_id": o.ID}
	update := bson.M{"$set": o}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update order: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s: %w", o.ID, floor.ErrNotFound)
	}

	return nil
}

// SaveWithStatus writes the order only when its stored status still matches
// expectedStatus. The status check rides in the update filter, so the
// compare and the write are one atomic document operation.
func (r *OrderRepo) SaveWithStatus(ctx context.Context, o *floor.Order, expectedStatus string) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	filter := bson.M{"_id": o.ID, "status": expectedStatus}
	update := bson.M{"$set": o}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update order: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s no longer %s: %w", o.ID, expectedStatus, floor.ErrPreconditionFailed)
	}

	return nil
}

func (r *OrderRepo) ListByTable(ctx context.Context, tableID uuid.UUID) ([]*floor.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"table_id": tableID})
	if err != nil {
		return nil, fmt.Errorf("cannot list orders by table: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*floor.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode orders: %w", err)
	}

	return result, nil
}

func (r *OrderRepo) ListByVenueStatuses(ctx context.Context, venueID uuid.UUID, statuses []string) ([]*floor.Order, error) {
	filter := bson.M{
		"venue_id": venueID,
		"status":   bson.M{"$in": statuses},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders by status: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*floor.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode orders: %w", err)
	}

	return result, nil
}

func (r *OrderRepo) CountPaidByTable(ctx context.Context, tableID uuid.UUID) (int64, error) {
	filter := bson.M{
		"table_id":       tableID,
		"payment_status": floor.PaymentStatusPaid,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("cannot count paid orders: %w", err)
	}

	return count, nil
}

func (r *OrderRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"venue_id": venueID})
	if err != nil {
		return 0, fmt.Errorf("cannot delete orders: %w", err)
	}

	return result.DeletedCount, nil
}
