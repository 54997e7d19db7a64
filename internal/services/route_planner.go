package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrAreaRequired = errors.New("area must be non-empty")

type PlanRequest struct {
	Area   string
	Points []domain.Point
}

// RoutePlanner composes depot lookup, tour sequencing, polyline assembly and
// ETA estimation, and hands finalized routes to the repository.
type RoutePlanner struct {
	Depots      ports.DepotDirectory
	Repo        ports.RouteRepository
	Assembler   *PolylineAssembler
	Estimator   ETAEstimator
	Distance    DistanceFunc
	KmPerDegree float64
	Metrics     *metrics.Metrics

	now   func() time.Time
	newID func() string
}

func NewRoutePlanner(
	depots ports.DepotDirectory,
	repo ports.RouteRepository,
	assembler *PolylineAssembler,
	estimator ETAEstimator,
) *RoutePlanner {
	return &RoutePlanner{
		Depots:      depots,
		Repo:        repo,
		Assembler:   assembler,
		Estimator:   estimator,
		Distance:    EuclideanDegrees,
		KmPerDegree: DefaultKmPerDegree,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Plan a collection route for the selected points of an area.
//
// The result carries the visiting order, the road polyline, the path length
// and the completion estimate. Nothing is persisted.
func (p *RoutePlanner) Plan(ctx context.Context, req PlanRequest) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	area := strings.TrimSpace(req.Area)
	if area == "" {
		return nil, fmt.Errorf("plan route: %w", ErrAreaRequired)
	}

	if err := validatePoints(req.Points); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	depot, err := p.Depots.Lookup(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("plan route: lookup depot for %q: %w", area, err)
	}

	tour := BuildTour(depot.Point(), req.Points, p.Distance)

	polyline := tour.Coordinates()
	if p.Assembler != nil && len(tour) >= 2 {
		polyline, err = p.Assembler.Assemble(ctx, tour.Coordinates())
		if err != nil {
			return nil, fmt.Errorf("plan route: assemble polyline: %w", err)
		}
	}

	km := PathLengthKm(polyline, p.KmPerDegree)
	distance := FormatDistance(km)

	if p.Metrics != nil {
		p.Metrics.RoutesPlanned.WithLabelValues(depot.Area).Inc()
		p.Metrics.PlannedStops.Observe(float64(len(req.Points)))
	}

	return &domain.RoutePlan{
		Area:          depot.Area,
		Depot:         depot,
		Tour:          tour,
		Polyline:      polyline,
		DistanceKm:    km,
		Distance:      distance,
		EstimatedTime: p.Estimator.Estimate(distance, len(req.Points)),
	}, nil
}

// Save persists a plan as a pending route record.
func (p *RoutePlanner) Save(ctx context.Context, plan *domain.RoutePlan) (*domain.RouteRecord, error) {
	if plan == nil {
		return nil, errors.New("save route: plan must be non-nil")
	}
	if p.Repo == nil {
		return nil, errors.New("save route: repository is not configured")
	}

	now := p.now().UTC()
	rec := &domain.RouteRecord{
		ID:            p.newID(),
		Area:          plan.Area,
		Stops:         plan.Tour.Stops(),
		Polyline:      plan.Polyline,
		Distance:      plan.Distance,
		DistanceKm:    plan.DistanceKm,
		EstimatedTime: plan.EstimatedTime,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := p.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save route: %w", err)
	}
	return rec, nil
}

// PlanAndSave plans a route and persists it in one step.
func (p *RoutePlanner) PlanAndSave(ctx context.Context, req PlanRequest) (*domain.RouteRecord, error) {
	plan, err := p.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.Save(ctx, plan)
}

// UpdateStatus moves a saved route along its dispatch lifecycle.
func (p *RoutePlanner) UpdateStatus(
	ctx context.Context,
	id string,
	next domain.RouteStatus,
) (*domain.RouteRecord, error) {
	rec, err := p.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update route status: %w", err)
	}

	if !rec.Status.CanTransition(next) {
		return nil, fmt.Errorf(
			"update route status: %s -> %s: %w",
			rec.Status, next, domain.ErrInvalidStatusTransition,
		)
	}

	if err := p.Repo.UpdateStatus(ctx, id, rec.Status, next); err != nil {
		return nil, fmt.Errorf("update route status: %w", err)
	}

	rec.Status = next
	rec.UpdatedAt = p.now().UTC()
	return rec, nil
}

func validatePoints(points []domain.Point) error {
	seen := make(map[string]struct{}, len(points))
	for i, pt := range points {
		id := strings.TrimSpace(pt.ID)
		if id == "" {
			return fmt.Errorf("point #%d: empty id: %w", i+1, domain.ErrInvalidPoint)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("point %q: duplicate id: %w", id, domain.ErrInvalidPoint)
		}
		seen[id] = struct{}{}

		if !pt.Loc.Valid() {
			return fmt.Errorf("point %q: coordinates out of range: %w", id, domain.ErrInvalidPoint)
		}
	}
	return nil
}
