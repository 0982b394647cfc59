package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisEdgeStore keeps edge sets in Redis so every API and worker process
// shares one cache. Keys: fokus:workflow:{project_id}:edges
type RedisEdgeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEdgeStore creates a Redis-backed EdgeStore.
func NewRedisEdgeStore(client *redis.Client, ttl time.Duration) *RedisEdgeStore {
	return &RedisEdgeStore{client: client, ttl: ttl}
}

func edgesKey(projectID uuid.UUID) string {
	return fmt.Sprintf("fokus:workflow:%s:edges", projectID)
}

func (s *RedisEdgeStore) Get(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, bool, error) {
	raw, err := s.client.Get(ctx, edgesKey(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []edgeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached edges: %w", err)
	}
	return fromRecords(projectID, records), true, nil
}

func (s *RedisEdgeStore) Set(ctx context.Context, projectID uuid.UUID, edges []*domain.Transition) error {
	raw, err := json.Marshal(toRecords(edges))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, edgesKey(projectID), raw, s.ttl).Err()
}

func (s *RedisEdgeStore) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	return s.client.Del(ctx, edgesKey(projectID)).Err()
}
