package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

const maxListLimit = 500

// RouteHandler plans collection routes and manages saved ones.
type RouteHandler struct {
	Planner *services.RoutePlanner
	Repo    ports.RouteRepository
}

// Plan computes a route for the submitted points without persisting it.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.Planner.Plan(r.Context(), services.PlanRequest{
		Area:   req.Area,
		Points: req.Domain(),
	})
	if err != nil {
		writeServiceError(w, r, "routes.Plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}

// Create plans a route and stores it as pending.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.Planner.PlanAndSave(r.Context(), services.PlanRequest{
		Area:   req.Area,
		Points: req.Domain(),
	})
	if err != nil {
		writeServiceError(w, r, "routes.Create", err)
		return
	}

	w.Header().Set("Location", "/routes/"+rec.ID)
	writeJSON(w, r, http.StatusCreated, dto.NewRouteResponse(rec))
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}

	recs, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "routes.List", err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(recs))}
	for _, rec := range recs {
		res.Routes = append(res.Routes, dto.NewRouteResponse(rec))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "routes.Get", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(rec))
}

// GeoJSON renders a saved route as a GeoJSON Feature whose geometry is the
// road polyline.
func (h *RouteHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "routes.GeoJSON", err)
		return
	}

	geometry, err := polylineGeometry(rec.Polyline)
	if err != nil {
		writeServiceError(w, r, "routes.GeoJSON", err)
		return
	}

	stopIDs := make([]string, 0, len(rec.Stops))
	for _, s := range rec.Stops {
		stopIDs = append(stopIDs, s.ID)
	}

	feature := &geojson.Feature{
		ID:       rec.ID,
		Geometry: geometry,
		Properties: map[string]interface{}{
			"area":           rec.Area,
			"status":         string(rec.Status),
			"distance":       rec.Distance,
			"estimated_time": rec.EstimatedTime.TimeString,
			"stops":          stopIDs,
		},
	}

	body, err := feature.MarshalJSON()
	if err != nil {
		writeServiceError(w, r, "routes.GeoJSON", err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// polylineGeometry builds the LineString for a route. A LineString needs at
// least two positions, so shorter polylines map to a null geometry.
func polylineGeometry(polyline []domain.Coordinates) (geom.T, error) {
	if len(polyline) < 2 {
		return nil, nil
	}

	coords := make([]geom.Coord, 0, len(polyline))
	for _, c := range polyline {
		coords = append(coords, geom.Coord(c.CoordsToList()))
	}
	return geom.NewLineString(geom.XY).SetCoords(coords)
}

// UpdateStatus advances the dispatch status of a saved route.
func (h *RouteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, ok := domain.ParseRouteStatus(req.Status)
	if !ok {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	rec, err := h.Planner.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeServiceError(w, r, "routes.UpdateStatus", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(rec))
}
