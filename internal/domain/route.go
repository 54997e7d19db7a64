package domain

import "time"

// EstimatedTime is derived from total distance and stop count.
// It is recomputed with the tour and never stored on its own.
type EstimatedTime struct {
	TimeString        string `json:"time_string"`
	Minutes           int    `json:"minutes"`
	DrivingMinutes    int    `json:"driving_minutes"`
	CollectionMinutes int    `json:"collection_minutes"`
}

// Represents the planned collection route for one area.
// A RoutePlan is the output of the planner: the tour, the road polyline
// following it and the aggregate distance and time estimate.
type RoutePlan struct {
	Area          string
	Depot         Depot
	Tour          Tour
	Polyline      []Coordinates
	DistanceKm    float64
	Distance      string
	EstimatedTime EstimatedTime
}

// RouteStatus tracks the dispatch lifecycle of a saved route.
type RouteStatus string

const (
	StatusPending    RouteStatus = "pending"
	StatusDispatched RouteStatus = "dispatched"
	StatusInProgress RouteStatus = "in_progress"
	StatusCompleted  RouteStatus = "completed"
	StatusCancelled  RouteStatus = "cancelled"
)

var nextStatus = map[RouteStatus]RouteStatus{
	StatusPending:    StatusDispatched,
	StatusDispatched: StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// ParseRouteStatus validates a status name.
func ParseRouteStatus(s string) (RouteStatus, bool) {
	switch st := RouteStatus(s); st {
	case StatusPending, StatusDispatched, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransition reports whether a route may move from s to next.
// Routes advance one step at a time and can be cancelled until completed.
func (s RouteStatus) CanTransition(next RouteStatus) bool {
	if next == StatusCancelled {
		return s != StatusCompleted && s != StatusCancelled
	}
	return nextStatus[s] == next
}

// RouteRecord is a finalized route as handed to persistence.
type RouteRecord struct {
	ID            string
	Area          string
	Stops         []Point
	Polyline      []Coordinates
	Distance      string
	DistanceKm    float64
	EstimatedTime EstimatedTime
	Status        RouteStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
