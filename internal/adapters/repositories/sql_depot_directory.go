package repositories

import (
	"collection-route-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQL-backed implementation of the DepotDirectory port.
type SQLDepotDirectory struct{ DB *sql.DB }

func NewSQLDepotDirectory(db *sql.DB) *SQLDepotDirectory {
	return &SQLDepotDirectory{DB: db}
}

// Return the depot for an area. Area names match case-insensitively.
func (s *SQLDepotDirectory) Lookup(ctx context.Context, area string) (domain.Depot, error) {
	if s.DB == nil {
		return domain.Depot{}, errors.New("sql depot directory: DB is nil")
	}

	query := `
	SELECT
		area,
		name,
		lat,
		lon
	FROM depots
	WHERE LOWER(area) = LOWER($1);
	`

	var d domain.Depot
	err := s.DB.QueryRowContext(ctx, query, strings.TrimSpace(area)).
		Scan(&d.Area, &d.Name, &d.Loc.Lat, &d.Loc.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Depot{}, fmt.Errorf("lookup depot %q: %w", area, domain.ErrDepotNotFound)
	}
	if err != nil {
		return domain.Depot{}, fmt.Errorf("lookup depot %q: %w", area, err)
	}

	return d, nil
}

// Return all depots ordered by area.
func (s *SQLDepotDirectory) List(ctx context.Context) ([]domain.Depot, error) {
	if s.DB == nil {
		return nil, errors.New("sql depot directory: DB is nil")
	}

	query := `
	SELECT
		area,
		name,
		lat,
		lon
	FROM depots
	ORDER BY area;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list depots: query depots table: %w", err)
	}
	defer rows.Close()

	depots := make([]domain.Depot, 0, 16)
	for rows.Next() {
		var d domain.Depot
		if err := rows.Scan(&d.Area, &d.Name, &d.Loc.Lat, &d.Loc.Lon); err != nil {
			return nil, fmt.Errorf("list depots: scan row: %w", err)
		}
		depots = append(depots, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list depots: row iteration: %w", err)
	}

	return depots, nil
}
