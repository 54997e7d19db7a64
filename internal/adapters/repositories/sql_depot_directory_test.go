package repositories

import (
	"collection-route-service/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLDepotDirectoryLookup(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)

	depot := domain.Depot{Area: "Sant Marti", Name: "Poblenou", Loc: domain.Coordinates{Lat: 41.40, Lon: 2.20}}
	require.NoError(t, UpsertDepots(ctx, conn, []domain.Depot{depot}))

	dir := NewSQLDepotDirectory(conn)

	got, err := dir.Lookup(ctx, "  sant marti ")
	require.NoError(t, err)
	assert.Equal(t, depot, got)

	_, err = dir.Lookup(ctx, "Atlantis")
	assert.ErrorIs(t, err, domain.ErrDepotNotFound)
}

func TestSQLDepotDirectoryNilDB(t *testing.T) {
	dir := &SQLDepotDirectory{}

	_, err := dir.Lookup(context.Background(), "x")
	require.Error(t, err)
	_, err = dir.List(context.Background())
	require.Error(t, err)
}
