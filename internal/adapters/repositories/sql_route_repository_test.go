package repositories

import (
	"collection-route-service/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string, created time.Time) *domain.RouteRecord {
	return &domain.RouteRecord{
		ID:   id,
		Area: "Eixample",
		Stops: []domain.Point{
			{ID: "bin-1", Name: "Carrer de Mallorca", Loc: domain.Coordinates{Lat: 41.39, Lon: 2.16}},
			{ID: "bin-2", Loc: domain.Coordinates{Lat: 41.40, Lon: 2.17}},
		},
		Polyline: []domain.Coordinates{
			{Lat: 41.38, Lon: 2.15}, {Lat: 41.39, Lon: 2.16}, {Lat: 41.40, Lon: 2.17}, {Lat: 41.38, Lon: 2.15},
		},
		Distance:   "6.30 km",
		DistanceKm: 6.3,
		EstimatedTime: domain.EstimatedTime{
			TimeString: "23m", Minutes: 23, DrivingMinutes: 17, CollectionMinutes: 6,
		},
		Status:    domain.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestSQLRouteRepositorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRouteRepository(newTestDB(t))

	created := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	rec := sampleRecord("r-1", created)
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "r-1")
	require.NoError(t, err)

	assert.Equal(t, rec.Area, got.Area)
	assert.Equal(t, rec.Stops, got.Stops)
	assert.Equal(t, rec.Polyline, got.Polyline)
	assert.Equal(t, rec.Distance, got.Distance)
	assert.InDelta(t, rec.DistanceKm, got.DistanceKm, 1e-9)
	assert.Equal(t, rec.EstimatedTime, got.EstimatedTime)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, created.Equal(got.CreatedAt), "created_at = %v", got.CreatedAt)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)

	// Duplicate ids are rejected by the primary key.
	assert.Error(t, repo.Save(ctx, rec))
}

func TestSQLRouteRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRouteRepository(newTestDB(t))

	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, sampleRecord("old", base)))
	require.NoError(t, repo.Save(ctx, sampleRecord("new", base.Add(time.Hour))))

	recs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "new", recs[0].ID)
	assert.Equal(t, "old", recs[1].ID)

	recs, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSQLRouteRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRouteRepository(newTestDB(t))

	require.NoError(t, repo.Save(ctx, sampleRecord("r-1", time.Now().UTC())))
	require.NoError(t, repo.UpdateStatus(ctx, "r-1", domain.StatusPending, domain.StatusDispatched))

	got, err := repo.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDispatched, got.Status)

	err = repo.UpdateStatus(ctx, "missing", domain.StatusPending, domain.StatusDispatched)
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestSQLRouteRepositoryUpdateStatusStale(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRouteRepository(newTestDB(t))

	require.NoError(t, repo.Save(ctx, sampleRecord("r-1", time.Now().UTC())))
	require.NoError(t, repo.UpdateStatus(ctx, "r-1", domain.StatusPending, domain.StatusDispatched))
	require.NoError(t, repo.UpdateStatus(ctx, "r-1", domain.StatusDispatched, domain.StatusInProgress))
	require.NoError(t, repo.UpdateStatus(ctx, "r-1", domain.StatusInProgress, domain.StatusCompleted))

	// A writer that still believes the route is in progress must not win.
	err := repo.UpdateStatus(ctx, "r-1", domain.StatusInProgress, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	got, err := repo.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestSQLRouteRepositoryRejectsEmptyID(t *testing.T) {
	repo := NewSQLRouteRepository(newTestDB(t))
	require.Error(t, repo.Save(context.Background(), &domain.RouteRecord{}))
}
