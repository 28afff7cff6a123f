package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore implements usecase.DedupStore using Redis. Each claimed key
// marks one notification as sent for one loan cycle.
type DedupStore struct {
	client *redis.Client
	prefix string
}

// NewDedupStore creates a new DedupStore.
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{
		client: client,
		prefix: "notify:",
	}
}

// Claim atomically marks the key as sent. SETNX guarantees exactly one of
// any number of concurrent claimers wins.
func (s *DedupStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, "sent", ttl).Result()
}

// Release frees a claimed key so a later scan may claim it again.
func (s *DedupStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
