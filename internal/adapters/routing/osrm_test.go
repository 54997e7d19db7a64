package routing_test

import (
	"collection-route-service/internal/adapters/routing"
	"collection-route-service/internal/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRMRouter_Route(t *testing.T) {
	start := domain.Coordinates{Lat: 41.38, Lon: 2.17}
	end := domain.Coordinates{Lat: 41.40, Lon: 2.19}

	t.Run("successful route", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/route/v1/driving/2.170000,41.380000;2.190000,41.400000", r.URL.Path)
			assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
			assert.Equal(t, "full", r.URL.Query().Get("overview"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":3100.5,"geometry":{"type":"LineString",
				"coordinates":[[2.17,41.38],[2.18,41.39],[2.19,41.40]]}}]}`))
		}))
		defer srv.Close()

		router := routing.NewOSRMRouter(srv.URL+"/", "", srv.Client())
		path, err := router.Route(context.Background(), start, end)

		require.NoError(t, err)
		require.Len(t, path, 3)
		assert.Equal(t, start, path[0])
		assert.Equal(t, domain.Coordinates{Lat: 41.39, Lon: 2.18}, path[1])
		assert.Equal(t, end, path[2])
	})

	t.Run("no route found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points","routes":[]}`))
		}))
		defer srv.Close()

		router := routing.NewOSRMRouter(srv.URL, "driving", srv.Client())
		path, err := router.Route(context.Background(), start, end)

		require.Error(t, err)
		assert.Nil(t, path)
		assert.ErrorContains(t, err, "NoRoute")
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		router := routing.NewOSRMRouter(srv.URL, "driving", srv.Client())
		_, err := router.Route(context.Background(), start, end)

		require.Error(t, err)
		assert.ErrorContains(t, err, "Code 429")
	})

	t.Run("malformed geometry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"type":"LineString","coordinates":[[2.17]]}}]}`))
		}))
		defer srv.Close()

		router := routing.NewOSRMRouter(srv.URL, "driving", srv.Client())
		_, err := router.Route(context.Background(), start, end)

		require.Error(t, err)
	})
}
