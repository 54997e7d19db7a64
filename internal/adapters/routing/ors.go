package routing

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	defaultORSProfile = "driving-car"
)

type orsDirectionsResponse struct {
	Features []struct {
		Geometry *geojson.Geometry `json:"geometry"`
	} `json:"features"`
}

// ORSRouter implements RoadRouter using the OpenRouteService directions API.
type ORSRouter struct {
	client  HTTPClient
	apiKey  string
	baseURL string
	profile string
}

func NewORSRouter(apiKey, baseURL, profile string, client HTTPClient) (*ORSRouter, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}
	if profile == "" {
		profile = defaultORSProfile
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &ORSRouter{
		client:  client,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}, nil
}

// Route requests driving directions between start and end as GeoJSON.
func (o *ORSRouter) Route(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	q := url.Values{}
	q.Set("start", fmt.Sprintf("%.6f,%.6f", start.Lon, start.Lat))
	q.Set("end", fmt.Sprintf("%.6f,%.6f", end.Lon, end.Lat))
	endpoint := fmt.Sprintf("%s/v2/directions/%s?%s", o.baseURL, o.profile, q.Encode())

	req, err := newRequest(ctx, endpoint, map[string]string{
		"Authorization": o.apiKey,
		"Accept":        "application/geo+json, application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("ors route: %w", err)
	}

	var decoded orsDirectionsResponse
	if err := getJSON(o.client, req, &decoded); err != nil {
		return nil, fmt.Errorf("ors route: %w", err)
	}

	if len(decoded.Features) == 0 {
		return nil, fmt.Errorf("ors route: no features returned")
	}

	path, err := lineStringCoordinates(decoded.Features[0].Geometry)
	if err != nil {
		return nil, fmt.Errorf("ors route: %w", err)
	}
	return path, nil
}
