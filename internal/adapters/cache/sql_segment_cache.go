package cache

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLSegmentCache is a SQL-backed cache of routed segments keyed by their
// endpoints. It works on SQLite and Postgres.
type SQLSegmentCache struct {
	DB  *sql.DB
	TTL time.Duration // zero keeps entries forever
}

func NewSQLSegmentCache(db *sql.DB, ttl time.Duration) *SQLSegmentCache {
	return &SQLSegmentCache{DB: db, TTL: ttl}
}

// Fetch the cached path from start to end.
func (s *SQLSegmentCache) Get(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "segment.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("segment cache: db is nil")
	}

	q := `
	SELECT path, created_at
    FROM segment_cache
    WHERE origin = $1
        AND destination = $2;
	`

	var raw string
	var createdAt time.Time
	err = s.DB.QueryRowContext(ctx, q, start.Key(), end.Key()).Scan(&raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get segment cache: query segment_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(createdAt) > s.TTL {
		return nil, false, nil
	}

	var path []domain.Coordinates
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return nil, false, fmt.Errorf("get segment cache: decode path: %w", err)
	}

	return path, true, nil
}

// Store the routed path from start to end, replacing any previous entry.
func (s *SQLSegmentCache) Put(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	path []domain.Coordinates,
) error {
	if s.DB == nil {
		return errors.New("segment cache: db is nil")
	}

	if len(path) == 0 {
		return errors.New("insert segment cache: path must not be empty")
	}

	raw, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("insert segment cache: encode path: %w", err)
	}

	q := `
	INSERT INTO segment_cache (origin, destination, path, created_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET path = EXCLUDED.path,
		created_at = EXCLUDED.created_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, start.Key(), end.Key(), string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert segment cache %s -> %s: %w", start.Key(), end.Key(), err)
	}

	return nil
}
