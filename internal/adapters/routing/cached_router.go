package routing

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/ports"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CachedRouter consults a persistent segment cache before calling the
// wrapped router. Cache failures are logged and bypassed.
type CachedRouter struct {
	next    ports.RoadRouter
	cache   ports.SegmentCache
	metrics *metrics.Metrics
}

func NewCachedRouter(next ports.RoadRouter, cache ports.SegmentCache, m *metrics.Metrics) *CachedRouter {
	return &CachedRouter{next: next, cache: cache, metrics: m}
}

func (c *CachedRouter) Route(ctx context.Context, start, end domain.Coordinates) ([]domain.Coordinates, error) {
	path, ok, err := c.cache.Get(ctx, start, end)
	if err != nil {
		logrus.WithError(err).Warn("segment cache read failed")
	}
	if ok && len(path) >= 2 {
		if c.metrics != nil {
			c.metrics.RouterCalls.WithLabelValues(metrics.OutcomeCached).Inc()
		}
		return path, nil
	}

	path, err = c.next.Route(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("cached router: %w", err)
	}

	// Fallback straight lines never reach here, so only routed paths are cached.
	if err := c.cache.Put(ctx, start, end, path); err != nil {
		logrus.WithError(err).Warn("segment cache write failed")
	}
	return path, nil
}
