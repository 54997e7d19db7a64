package routing

import (
	"collection-route-service/internal/domain"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// lineStringCoordinates decodes a GeoJSON LineString as returned by OSRM and
// ORS into domain coordinates. Positions may carry elevation; only lon and
// lat are kept.
func lineStringCoordinates(g *geojson.Geometry) ([]domain.Coordinates, error) {
	t, err := g.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}

	line, ok := t.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("geometry is %T, want LineString", t)
	}
	if line.NumCoords() < 2 {
		return nil, fmt.Errorf("geometry has %d coordinates, want at least 2", line.NumCoords())
	}

	out := make([]domain.Coordinates, 0, line.NumCoords())
	for _, c := range line.Coords() {
		out = append(out, domain.Coordinates{Lon: c.X(), Lat: c.Y()})
	}
	return out, nil
}
