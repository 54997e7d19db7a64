package services

import (
	"collection-route-service/internal/domain"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultSpeedKmh            = 22.0
	DefaultDwellMinutesPerStop = 3
	// Flat-earth scale for converting coordinate degrees to kilometers.
	DefaultKmPerDegree = 111.32

	NotAvailable = "N/A"

	// Estimates beyond this many minutes are reported as unavailable.
	maxEstimateMinutes = math.MaxInt32
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseDistanceKm reads the leading number of a distance string such as
// "12.5 km" or "3km". It reports false for anything that does not start with
// a finite, non-negative number.
func ParseDistanceKm(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}

	km, err := strconv.ParseFloat(m, 64)
	if err != nil || km < 0 || math.IsInf(km, 0) {
		return 0, false
	}
	return km, true
}

// FormatDistance renders kilometers the way route records store them.
func FormatDistance(km float64) string {
	return fmt.Sprintf("%.2f km", km)
}

// PathLengthKm sums consecutive Euclidean degree distances along path and
// scales them by kmPerDegree.
func PathLengthKm(path []domain.Coordinates, kmPerDegree float64) float64 {
	if kmPerDegree <= 0 {
		kmPerDegree = DefaultKmPerDegree
	}

	total := 0.0
	for i := 1; i < len(path); i++ {
		total += EuclideanDegrees(path[i-1], path[i])
	}
	return total * kmPerDegree
}

// ETAEstimator turns a route distance and stop count into a completion estimate:
// driving time at an average speed plus a fixed dwell per stop.
type ETAEstimator struct {
	SpeedKmh            float64
	DwellMinutesPerStop int
}

func NewETAEstimator(speedKmh float64, dwellMinutesPerStop int) ETAEstimator {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	if dwellMinutesPerStop < 0 {
		dwellMinutesPerStop = DefaultDwellMinutesPerStop
	}
	return ETAEstimator{SpeedKmh: speedKmh, DwellMinutesPerStop: dwellMinutesPerStop}
}

// Estimate parses distance and estimates the completion time for stops
// collection stops. Unparseable distances yield the "N/A" estimate.
func (e ETAEstimator) Estimate(distance string, stops int) domain.EstimatedTime {
	km, ok := ParseDistanceKm(distance)
	if !ok {
		return domain.EstimatedTime{TimeString: NotAvailable}
	}
	return e.EstimateKm(km, stops)
}

func (e ETAEstimator) EstimateKm(km float64, stops int) domain.EstimatedTime {
	if km < 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return domain.EstimatedTime{TimeString: NotAvailable}
	}
	if stops < 0 {
		stops = 0
	}

	speed := e.SpeedKmh
	if speed <= 0 {
		speed = DefaultSpeedKmh
	}

	drivingF := math.Round(km / speed * 60)
	if drivingF > maxEstimateMinutes {
		return domain.EstimatedTime{TimeString: NotAvailable}
	}
	if e.DwellMinutesPerStop > 0 && stops > maxEstimateMinutes/e.DwellMinutesPerStop {
		return domain.EstimatedTime{TimeString: NotAvailable}
	}

	driving := int(drivingF)
	collection := stops * e.DwellMinutesPerStop
	if driving > maxEstimateMinutes-collection {
		return domain.EstimatedTime{TimeString: NotAvailable}
	}
	total := driving + collection

	return domain.EstimatedTime{
		TimeString:        FormatMinutes(total),
		Minutes:           total,
		DrivingMinutes:    driving,
		CollectionMinutes: collection,
	}
}

// FormatMinutes renders "2h 5m", "2h" or "45m".
func FormatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}

	hours, minutes := total/60, total%60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
