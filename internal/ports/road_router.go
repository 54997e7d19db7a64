package ports

import (
	"collection-route-service/internal/domain"
	"context"
)

// Contract for retrieving the road path between two locations.
type RoadRouter interface {
	// Return an ordered polyline approximating the road path from start to end.
	Route(ctx context.Context, start, end domain.Coordinates) ([]domain.Coordinates, error)
}

// Persistent store of routed segments keyed by their endpoints.
type SegmentCache interface {
	// Return the cached polyline and whether it was found.
	Get(ctx context.Context, start, end domain.Coordinates) ([]domain.Coordinates, bool, error)
	Put(ctx context.Context, start, end domain.Coordinates, path []domain.Coordinates) error
}
