package api_test

import (
	"bytes"
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/adapters/routing"
	"collection-route-service/internal/api"
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/db"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/services"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "routes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, repositories.InitSchema(conn))
	require.NoError(t, repositories.UpsertDepots(context.Background(), conn, []domain.Depot{
		{Area: "Centro", Name: "Depot Centro", Loc: domain.Coordinates{Lat: 0, Lon: 0}},
	}))

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	depots := repositories.NewSQLDepotDirectory(conn)
	routes := repositories.NewSQLRouteRepository(conn)
	estimator := services.NewETAEstimator(services.DefaultSpeedKmh, services.DefaultDwellMinutesPerStop)
	planner := services.NewRoutePlanner(depots, routes, &services.PolylineAssembler{
		Router:  routing.StraightLineRouter{},
		Metrics: m,
	}, estimator)
	planner.Metrics = m

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		DB:          conn,
		Depots:      depots,
		Routes:      routes,
		Planner:     planner,
		Estimator:   estimator,
		Metrics:     m,
		Gatherer:    reg,
		CORSOrigins: []string{"http://localhost:5173"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

const planBody = `{
	"area": "centro",
	"points": [
		{"id": "far", "lat": 0, "lng": 0.2},
		{"id": "near", "name": "Plaza", "lat": 0, "lng": 0.1}
	]
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, res))
}

func TestListDepots(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, http.MethodGet, srv.URL+"/depots", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decode[dto.ListDepotsResponse](t, res)
	require.Len(t, body.Depots, 1)
	assert.Equal(t, "Centro", body.Depots[0].Area)
}

func TestPlanRoute(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, http.MethodPost, srv.URL+"/routes/plan", planBody)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decode[dto.PlanResponse](t, res)
	require.Len(t, body.Tour, 4)
	assert.Equal(t, "near", body.Tour[1].ID)
	assert.Equal(t, "far", body.Tour[2].ID)
	assert.Len(t, body.Polyline, 4)
	assert.Equal(t, "44.53 km", body.Distance)
	assert.Equal(t, "2h 7m", body.EstimatedTime.TimeString)

	// Planning alone does not persist anything.
	list := decode[dto.ListRoutesResponse](t, do(t, http.MethodGet, srv.URL+"/routes", ""))
	assert.Empty(t, list.Routes)
}

func TestPlanRouteErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"area":`, http.StatusBadRequest},
		{"unknown field", `{"area":"Centro","truck_count":3}`, http.StatusBadRequest},
		{"two objects", `{"area":"Centro"}{}`, http.StatusBadRequest},
		{"missing area", `{"points":[]}`, http.StatusBadRequest},
		{"duplicate ids", `{"area":"Centro","points":[{"id":"a"},{"id":"a"}]}`, http.StatusBadRequest},
		{"bad latitude", `{"area":"Centro","points":[{"id":"a","lat":120}]}`, http.StatusBadRequest},
		{"unknown area", `{"area":"Atlantis","points":[]}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, http.MethodPost, srv.URL+"/routes/plan", tt.body)
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestRouteLifecycle(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, http.MethodPost, srv.URL+"/routes", planBody)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	created := decode[dto.RouteResponse](t, res)
	assert.Equal(t, "/routes/"+created.ID, res.Header.Get("Location"))
	assert.Equal(t, domain.StatusPending, created.Status)
	require.Len(t, created.Stops, 2)
	assert.Equal(t, "Plaza", created.Stops[0].Name)

	res = do(t, http.MethodGet, srv.URL+"/routes/"+created.ID, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[dto.RouteResponse](t, res)
	assert.Equal(t, created.Polyline, got.Polyline)
	assert.Equal(t, created.EstimatedTime, got.EstimatedTime)

	list := decode[dto.ListRoutesResponse](t, do(t, http.MethodGet, srv.URL+"/routes?limit=10", ""))
	require.Len(t, list.Routes, 1)
	assert.Equal(t, created.ID, list.Routes[0].ID)

	statusURL := srv.URL + "/routes/" + created.ID + "/status"

	res = do(t, http.MethodPatch, statusURL, `{"status":"dispatched"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, domain.StatusDispatched, decode[dto.RouteResponse](t, res).Status)

	res = do(t, http.MethodPatch, statusURL, `{"status":"completed"}`)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = do(t, http.MethodPatch, statusURL, `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRouteNotFound(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/routes/nope", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/routes/nope/geojson", "").StatusCode)
	assert.Equal(t, http.StatusNotFound,
		do(t, http.MethodPatch, srv.URL+"/routes/nope/status", `{"status":"dispatched"}`).StatusCode)
}

func TestListRoutesBadLimit(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/routes?limit=0", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/routes?limit=x", "").StatusCode)
}

func TestRouteGeoJSON(t *testing.T) {
	srv := newTestServer(t)

	created := decode[dto.RouteResponse](t, do(t, http.MethodPost, srv.URL+"/routes", planBody))

	res := do(t, http.MethodGet, srv.URL+"/routes/"+created.ID+"/geojson", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/geo+json", res.Header.Get("Content-Type"))

	var feature struct {
		Type     string `json:"type"`
		ID       string `json:"id"`
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&feature))

	assert.Equal(t, "Feature", feature.Type)
	assert.Equal(t, created.ID, feature.ID)
	assert.Equal(t, "LineString", feature.Geometry.Type)
	require.Len(t, feature.Geometry.Coordinates, 4)
	// GeoJSON positions are [lng, lat].
	assert.Equal(t, []float64{0.1, 0}, feature.Geometry.Coordinates[1])
	assert.Equal(t, "Centro", feature.Properties["area"])
	assert.Equal(t, "pending", feature.Properties["status"])
}

func TestRouteGeoJSONWithoutStops(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, http.MethodPost, srv.URL+"/routes", `{"area":"Centro","points":[]}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	created := decode[dto.RouteResponse](t, res)
	require.Empty(t, created.Polyline)

	res = do(t, http.MethodGet, srv.URL+"/routes/"+created.ID+"/geojson", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var feature map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&feature))

	assert.Equal(t, `"Feature"`, string(feature["type"]))
	assert.Equal(t, "null", string(feature["geometry"]))
}

func TestETA(t *testing.T) {
	srv := newTestServer(t)

	res := do(t, http.MethodGet, srv.URL+"/eta?distance=11%20km&stops=10", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decode[dto.ETAResponse](t, res)
	assert.Equal(t, "1h", body.TimeString)
	assert.Equal(t, 30, body.DrivingMinutes)
	assert.Equal(t, 30, body.CollectionMinutes)

	body = decode[dto.ETAResponse](t, do(t, http.MethodGet, srv.URL+"/eta?distance=abc", ""))
	assert.Equal(t, "N/A", body.TimeString)
	assert.Equal(t, 0, body.Minutes)

	body = decode[dto.ETAResponse](t, do(t, http.MethodGet, srv.URL+"/eta?distance=1e300", ""))
	assert.Equal(t, "N/A", body.TimeString)
	assert.Equal(t, 0, body.Minutes)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/eta?distance=1&stops=x", "").StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/routes/plan", planBody)

	res := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `collection_routes_planned_total{area="Centro"} 1`)
	assert.Contains(t, buf.String(), `collection_router_calls_total{outcome="ok"} 3`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/routes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))
}
