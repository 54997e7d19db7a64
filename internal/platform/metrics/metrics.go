package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for road router calls.
const (
	OutcomeOK       = "ok"
	OutcomeCached   = "cached"
	OutcomeFallback = "fallback"
)

type Metrics struct {
	RouterCalls   *prometheus.CounterVec
	RouterSeconds prometheus.Histogram
	RoutesPlanned *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	PlannedStops  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RouterCalls: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "collection_router_calls_total",
			Help: "Total number of road routing lookups by outcome.",
		}, []string{"outcome"}),
		RouterSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "collection_router_call_duration_seconds",
			Help:    "Duration of calls to the road routing provider.",
			Buckets: prometheus.DefBuckets,
		}),
		RoutesPlanned: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "collection_routes_planned_total",
			Help: "Total number of planned routes by area.",
		}, []string{"area"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "collection_http_requests_total",
			Help: "Total number of HTTP requests by method and status.",
		}, []string{"method", "status"}),
		PlannedStops: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "collection_route_stops",
			Help:    "Number of collection stops per planned route.",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		}),
	}
}
