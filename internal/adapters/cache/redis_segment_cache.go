package cache

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const segmentKeyPrefix = "segment:"

// RedisSegmentCache stores routed segments in Redis with an expiry.
type RedisSegmentCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSegmentCache(client redis.UniversalClient, ttl time.Duration) *RedisSegmentCache {
	return &RedisSegmentCache{client: client, ttl: ttl}
}

func segmentKey(start, end domain.Coordinates) string {
	return segmentKeyPrefix + start.Key() + "|" + end.Key()
}

func (r *RedisSegmentCache) Get(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "segment.redis.Get")(&err)

	raw, err := r.client.Get(ctx, segmentKey(start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get redis segment: %w", err)
	}

	var path []domain.Coordinates
	if err := json.Unmarshal(raw, &path); err != nil {
		return nil, false, fmt.Errorf("get redis segment: decode path: %w", err)
	}
	return path, true, nil
}

func (r *RedisSegmentCache) Put(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	path []domain.Coordinates,
) error {
	if len(path) == 0 {
		return errors.New("put redis segment: path must not be empty")
	}

	raw, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("put redis segment: encode path: %w", err)
	}

	if err := r.client.Set(ctx, segmentKey(start, end), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("put redis segment: %w", err)
	}
	return nil
}
