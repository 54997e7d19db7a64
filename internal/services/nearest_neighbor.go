package services

import (
	"collection-route-service/internal/domain"
	"math"
)

// DistanceFunc measures the separation of two coordinates.
// Only the ordering of its results matters to the tour sequencer.
type DistanceFunc func(a, b domain.Coordinates) float64

// EuclideanDegrees is plain Euclidean distance on raw latitude/longitude.
// It is a city-scale approximation, not a geodesic distance.
func EuclideanDegrees(a, b domain.Coordinates) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

const earthRadiusKm = 6371.0088

// Haversine returns the great-circle distance in kilometers.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DistanceMetric resolves a configured metric name. Unknown names fall back
// to EuclideanDegrees.
func DistanceMetric(name string) DistanceFunc {
	if name == "haversine" {
		return Haversine
	}
	return EuclideanDegrees
}

// Build a collection tour using a greedy nearest-neighbor heuristic.
//
// The tour starts at the depot, repeatedly moves to the closest unvisited
// point and finally returns to the depot. Ties keep the point that appears
// first in the input, so identical input always yields the same tour.
// No local-search improvement pass is applied.
func BuildTour(depot domain.Point, points []domain.Point, dist DistanceFunc) domain.Tour {
	if len(points) == 0 {
		return domain.Tour{}
	}
	if dist == nil {
		dist = EuclideanDegrees
	}

	visited := make([]bool, len(points))
	tour := make(domain.Tour, 0, len(points)+2)
	tour = append(tour, depot)
	current := depot.Loc

	for range points {
		best := -1
		bestDist := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		for i, p := range points {
			if visited[i] {
				continue
			}
			// Strict comparison keeps the first-encountered point on ties.
			if d := dist(current, p.Loc); best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}

		visited[best] = true
		tour = append(tour, points[best])
		current = points[best].Loc
	}

	return append(tour, depot)
}
