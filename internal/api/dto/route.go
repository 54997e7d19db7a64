package dto

import (
	"collection-route-service/internal/domain"
	"time"
)

type PointRequest struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type PlanRequest struct {
	Area   string         `json:"area"`
	Points []PointRequest `json:"points"`
}

// Domain converts the request points in their submitted order.
func (r PlanRequest) Domain() []domain.Point {
	out := make([]domain.Point, 0, len(r.Points))
	for _, p := range r.Points {
		out = append(out, domain.Point{
			ID:   p.ID,
			Name: p.Name,
			Loc:  domain.Coordinates{Lat: p.Lat, Lon: p.Lng},
		})
	}
	return out
}

type PlanResponse struct {
	Area          string               `json:"area"`
	Depot         domain.Depot         `json:"depot"`
	Tour          []domain.Point       `json:"tour"`
	Polyline      []domain.Coordinates `json:"polyline"`
	Distance      string               `json:"distance"`
	DistanceKm    float64              `json:"distance_km"`
	EstimatedTime domain.EstimatedTime `json:"estimated_time"`
}

func NewPlanResponse(p *domain.RoutePlan) PlanResponse {
	return PlanResponse{
		Area:          p.Area,
		Depot:         p.Depot,
		Tour:          nonNil(p.Tour),
		Polyline:      nonNil(p.Polyline),
		Distance:      p.Distance,
		DistanceKm:    p.DistanceKm,
		EstimatedTime: p.EstimatedTime,
	}
}

type RouteResponse struct {
	ID            string               `json:"id"`
	Area          string               `json:"area"`
	Stops         []domain.Point       `json:"stops"`
	Polyline      []domain.Coordinates `json:"polyline"`
	Distance      string               `json:"distance"`
	DistanceKm    float64              `json:"distance_km"`
	EstimatedTime domain.EstimatedTime `json:"estimated_time"`
	Status        domain.RouteStatus   `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func NewRouteResponse(r *domain.RouteRecord) RouteResponse {
	return RouteResponse{
		ID:            r.ID,
		Area:          r.Area,
		Stops:         nonNil(r.Stops),
		Polyline:      nonNil(r.Polyline),
		Distance:      r.Distance,
		DistanceKm:    r.DistanceKm,
		EstimatedTime: r.EstimatedTime,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ListDepotsResponse struct {
	Depots []domain.Depot `json:"depots"`
}

type ETAResponse struct {
	Distance string `json:"distance"`
	Stops    int    `json:"stops"`
	domain.EstimatedTime
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
