package routing

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"
)

const (
	defaultOSRMBaseURL = "https://router.project-osrm.org"
	defaultOSRMProfile = "driving"
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry *geojson.Geometry `json:"geometry"`
		Distance float64           `json:"distance"`
	} `json:"routes"`
}

// OSRMRouter implements RoadRouter using the OSRM route service.
type OSRMRouter struct {
	client  HTTPClient
	baseURL string
	profile string
}

func NewOSRMRouter(baseURL, profile string, client HTTPClient) *OSRMRouter {
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	if profile == "" {
		profile = defaultOSRMProfile
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &OSRMRouter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}
}

// Route requests the full-overview road geometry between start and end.
func (o *OSRMRouter) Route(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		o.baseURL, o.profile, start.Lon, start.Lat, end.Lon, end.Lat,
	)

	req, err := newRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}

	var decoded osrmResponse
	if err := getJSON(o.client, req, &decoded); err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}

	if decoded.Code != "Ok" {
		return nil, fmt.Errorf("osrm route: code %q: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("osrm route: no routes returned")
	}

	path, err := lineStringCoordinates(decoded.Routes[0].Geometry)
	if err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}
	return path, nil
}
