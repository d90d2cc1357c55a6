package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plateful/floord/internal/floor"
)

type TicketRepo struct {
	collection *mongo.Collection
}

func NewTicketRepo(db *mongo.Database) *TicketRepo {
	return &TicketRepo{
		collection: db.Collection("kitchen_tickets"),
	}
}

func (r *TicketRepo) Create(ctx context.Context, ticket *floor.KitchenTicket) error {
	if ticket == nil {
		return fmt.Errorf("ticket is nil")
	}

	if _, err := r.collection.InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("cannot create ticket: %w", err)
	}

	return nil
}

func (r *TicketRepo) Get(ctx context.Context, id uuid.UUID) (*floor.KitchenTicket, error) {
	var ticket floor.KitchenTicket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get ticket: %w", err)
	}
	return &ticket, nil
}

func (r *TicketRepo) Save(ctx context.Context, ticket *floor.KitchenTicket) error {
	if ticket == nil {
		return fmt.Errorf("ticket is nil")
	}

	filter := bson.M{"_id": ticket.ID}
	update := bson.M{"$set": ticket}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update ticket: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket %s: %w", ticket.ID, floor.ErrNotFound)
	}

	return nil
}

func (r *TicketRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*floor.KitchenTicket, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("cannot list tickets by order: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*floor.KitchenTicket
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode tickets: %w", err)
	}

	return result, nil
}

func (r *TicketRepo) DeleteByVenue(ctx context.Context, venueID uuid.UUID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"venue_id": venueID})
	if err != nil {
		return 0, fmt.Errorf("cannot delete tickets: %w", err)
	}

	return result.DeletedCount, nil
}
