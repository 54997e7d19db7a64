package ports

import (
	"collection-route-service/internal/domain"
	"context"
)

// Port: a boundary for storing finalized route records.
type RouteRepository interface {
	Save(ctx context.Context, rec *domain.RouteRecord) error
	Get(ctx context.Context, id string) (*domain.RouteRecord, error)
	List(ctx context.Context, limit int) ([]*domain.RouteRecord, error)
	// Move a route from one status to another only if it still holds from.
	// Returns domain.ErrRouteNotFound for unknown IDs and
	// domain.ErrInvalidStatusTransition when the stored status differs.
	UpdateStatus(ctx context.Context, id string, from, to domain.RouteStatus) error
}
