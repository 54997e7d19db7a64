package api

import (
	"collection-route-service/internal/api/handlers"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer needs. Handlers stay unaware of
// concrete adapters.
type Deps struct {
	DB          handlers.Pinger
	Depots      ports.DepotDirectory
	Routes      ports.RouteRepository
	Planner     *services.RoutePlanner
	Estimator   services.ETAEstimator
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(d.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Location", "X-Request-ID"},
		MaxAge:         300,
	}))

	health := &handlers.HealthHandler{DB: d.DB}
	depots := &handlers.DepotHandler{Depots: d.Depots}
	routes := &handlers.RouteHandler{Planner: d.Planner, Repo: d.Routes}
	eta := &handlers.ETAHandler{Estimator: d.Estimator}

	r.Get("/health", health.Health)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/depots", depots.List)
	r.Get("/eta", eta.Estimate)

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", routes.List)
		r.Post("/", routes.Create)
		r.Post("/plan", routes.Plan)
		r.Get("/{id}", routes.Get)
		r.Get("/{id}/geojson", routes.GeoJSON)
		r.Patch("/{id}/status", routes.UpdateStatus)
	})

	return r
}
