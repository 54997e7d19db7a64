package ports

import (
	"collection-route-service/internal/domain"
	"context"
)

// Port: static reference data mapping municipal areas to their depot.
type DepotDirectory interface {
	// Return the depot for an area, or domain.ErrDepotNotFound.
	Lookup(ctx context.Context, area string) (domain.Depot, error)
	List(ctx context.Context) ([]domain.Depot, error)
}
