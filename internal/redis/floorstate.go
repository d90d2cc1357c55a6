package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FloorStateStore keeps the derived per-venue floor snapshot in a Redis
// hash, one field per table. It is a read model for floor displays; the
// session collection stays authoritative and the hash can be rebuilt from
// it at any time.
type FloorStateStore struct {
	client *redis.Client
}

func NewFloorStateStore(client *redis.Client) *FloorStateStore {
	return &FloorStateStore{client: client}
}

func floorKey(venueID uuid.UUID) string {
	return "floor:" + venueID.String()
}

func (s *FloorStateStore) SetTableStatus(ctx context.Context, venueID, tableID uuid.UUID, status string) error {
	if err := s.client.HSet(ctx, floorKey(venueID), tableID.String(), status).Err(); err != nil {
		return fmt.Errorf("cannot set table status: %w", err)
	}
	return nil
}

func (s *FloorStateStore) Snapshot(ctx context.Context, venueID uuid.UUID) (map[string]string, error) {
	snapshot, err := s.client.HGetAll(ctx, floorKey(venueID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot read floor snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *FloorStateStore) Clear(ctx context.Context, venueID uuid.UUID) error {
	if err := s.client.Del(ctx, floorKey(venueID)).Err(); err != nil {
		return fmt.Errorf("cannot clear floor snapshot: %w", err)
	}
	return nil
}
