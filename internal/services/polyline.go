package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var errShortPath = errors.New("router returned fewer than two coordinates")

// PolylineAssembler turns an ordered list of tour coordinates into a single
// road-following path by routing every consecutive pair.
//
// Calls are issued one at a time with Delay between them to respect provider
// quotas. A failed or timed-out edge degrades to the straight segment between
// its endpoints and is never reported to the caller. Once Budget is spent the
// remaining edges are straight segments without calling the router.
type PolylineAssembler struct {
	Router  ports.RoadRouter
	Delay   time.Duration // pause between consecutive router calls
	Timeout time.Duration // per-edge deadline; zero means none
	Budget  time.Duration // total time for routed calls; zero means none
	Metrics *metrics.Metrics
}

// Assemble routes each edge of coords in order and joins the segments.
// The only error returned is the cancellation of ctx itself.
func (a *PolylineAssembler) Assemble(
	ctx context.Context,
	coords []domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "polyline.Assemble")(&err)

	if len(coords) < 2 {
		out := make([]domain.Coordinates, len(coords))
		copy(out, coords)
		return out, nil
	}

	var deadline time.Time
	if a.Budget > 0 {
		deadline = time.Now().Add(a.Budget)
	}

	segments := make([][]domain.Coordinates, 0, len(coords)-1)
	for i := 0; i+1 < len(coords); i++ {
		start, end := coords[i], coords[i+1]

		remaining := time.Until(deadline)
		if !deadline.IsZero() && remaining <= a.Delay {
			segments = append(segments, []domain.Coordinates{start, end})
			a.count(metrics.OutcomeFallback)
			continue
		}

		if i > 0 && a.Delay > 0 {
			if err := sleep(ctx, a.Delay); err != nil {
				return nil, err
			}
			remaining -= a.Delay
		}

		timeout := a.Timeout
		if !deadline.IsZero() && (timeout <= 0 || remaining < timeout) {
			timeout = remaining
		}
		segments = append(segments, a.routeEdge(ctx, start, end, timeout))

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return JoinSegments(segments), nil
}

func (a *PolylineAssembler) routeEdge(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	timeout time.Duration,
) []domain.Coordinates {
	straight := []domain.Coordinates{start, end}
	if a.Router == nil {
		return straight
	}

	edgeCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		edgeCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	began := time.Now()
	path, err := a.Router.Route(edgeCtx, start, end)
	if a.Metrics != nil {
		a.Metrics.RouterSeconds.Observe(time.Since(began).Seconds())
	}
	if err == nil && len(path) < 2 {
		err = errShortPath
	}

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"req_id": obs.RequestID(ctx),
			"start":  start.Key(),
			"end":    end.Key(),
		}).WithError(err).Warn("road routing failed, using straight segment")
		a.count(metrics.OutcomeFallback)
		return straight
	}

	a.count(metrics.OutcomeOK)
	return path
}

func (a *PolylineAssembler) count(outcome string) {
	if a.Metrics != nil {
		a.Metrics.RouterCalls.WithLabelValues(outcome).Inc()
	}
}

// JoinSegments concatenates routed segments. Every segment after the first
// drops its first coordinate, which repeats the previous segment's last one.
func JoinSegments(segments [][]domain.Coordinates) []domain.Coordinates {
	out := []domain.Coordinates{}
	for i, seg := range segments {
		if i > 0 && len(seg) > 0 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	return out
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
