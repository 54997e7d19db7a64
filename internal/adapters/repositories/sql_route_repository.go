package repositories

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the RouteRepository port.
// Stops and polyline are stored as JSON text columns.
type SQLRouteRepository struct{ DB *sql.DB }

func NewSQLRouteRepository(db *sql.DB) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db}
}

const routeColumns = `
		route_id,
		area,
		stops,
		polyline,
		distance,
		distance_km,
		eta_text,
		eta_minutes,
		driving_minutes,
		collection_minutes,
		status,
		created_at,
		updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLRouteRepository) Save(ctx context.Context, rec *domain.RouteRecord) (err error) {
	defer obs.Time(ctx, "routes.Save")(&err)

	if s.DB == nil {
		return errors.New("sql route repository: DB is nil")
	}
	if rec == nil || rec.ID == "" {
		return errors.New("save route: record id must be non-empty")
	}

	stops, err := json.Marshal(rec.Stops)
	if err != nil {
		return fmt.Errorf("save route %s: encode stops: %w", rec.ID, err)
	}
	polyline, err := json.Marshal(rec.Polyline)
	if err != nil {
		return fmt.Errorf("save route %s: encode polyline: %w", rec.ID, err)
	}

	query := `
	INSERT INTO routes (` + routeColumns + `
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = s.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Area,
		string(stops),
		string(polyline),
		rec.Distance,
		rec.DistanceKm,
		rec.EstimatedTime.TimeString,
		rec.EstimatedTime.Minutes,
		rec.EstimatedTime.DrivingMinutes,
		rec.EstimatedTime.CollectionMinutes,
		string(rec.Status),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save route %s: insert: %w", rec.ID, err)
	}

	return nil
}

func (s *SQLRouteRepository) Get(ctx context.Context, id string) (*domain.RouteRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sql route repository: DB is nil")
	}

	query := `SELECT` + routeColumns + `
	FROM routes
	WHERE route_id = $1;
	`

	rec, err := scanRoute(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %s: %w", id, domain.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent routes first.
func (s *SQLRouteRepository) List(ctx context.Context, limit int) ([]*domain.RouteRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sql route repository: DB is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT` + routeColumns + `
	FROM routes
	ORDER BY created_at DESC, route_id
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.RouteRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return out, nil
}

// UpdateStatus is a compare-and-set on the stored status, so concurrent
// transitions cannot both apply.
func (s *SQLRouteRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from domain.RouteStatus,
	to domain.RouteStatus,
) error {
	if s.DB == nil {
		return errors.New("sql route repository: DB is nil")
	}

	query := `
	UPDATE routes
	SET status = $1,
		updated_at = $2
	WHERE route_id = $3
		AND status = $4;
	`
	res, err := s.DB.ExecContext(ctx, query, string(to), time.Now().UTC(), id, string(from))
	if err != nil {
		return fmt.Errorf("update route %s status: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route %s status: rows affected: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	// Nothing matched: either the route is gone or its status moved on.
	current, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("update route %s status: %w", id, err)
	}
	return fmt.Errorf(
		"update route %s status: now %s, expected %s: %w",
		id, current.Status, from, domain.ErrInvalidStatusTransition,
	)
}

func scanRoute(row rowScanner) (*domain.RouteRecord, error) {
	var (
		rec      domain.RouteRecord
		stops    string
		polyline string
		status   string
	)

	err := row.Scan(
		&rec.ID,
		&rec.Area,
		&stops,
		&polyline,
		&rec.Distance,
		&rec.DistanceKm,
		&rec.EstimatedTime.TimeString,
		&rec.EstimatedTime.Minutes,
		&rec.EstimatedTime.DrivingMinutes,
		&rec.EstimatedTime.CollectionMinutes,
		&status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stops), &rec.Stops); err != nil {
		return nil, fmt.Errorf("decode stops: %w", err)
	}
	if err := json.Unmarshal([]byte(polyline), &rec.Polyline); err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	rec.Status = domain.RouteStatus(status)

	return &rec, nil
}
