package repositories

import (
	"collection-route-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the database schema. Statements are portable across SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDepotsQuery := `
	CREATE TABLE IF NOT EXISTS depots (
		area TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
        route_id TEXT PRIMARY KEY,
        area TEXT NOT NULL,
        stops TEXT NOT NULL,
        polyline TEXT NOT NULL,
        distance TEXT NOT NULL,
        distance_km DOUBLE PRECISION NOT NULL,
        eta_text TEXT NOT NULL,
        eta_minutes INTEGER NOT NULL,
        driving_minutes INTEGER NOT NULL,
        collection_minutes INTEGER NOT NULL,
        status TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    );
	`

	createSegmentCacheQuery := `
	CREATE TABLE IF NOT EXISTS segment_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        path TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_created_at
    ON routes(created_at);
	`

	statements := []string{
		createDepotsQuery,
		createRoutesQuery,
		createSegmentCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DepotSeed struct {
	Area string  `json:"area"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Populate the depots table from a JSON file.
func SeedDepotsFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed depots: read %q: %w", jsonPath, err)
	}

	var data []DepotSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed depots: parse json: %w", err)
	}

	depots := make([]domain.Depot, 0, len(data))
	for i, item := range data {
		area := strings.TrimSpace(item.Area)
		if area == "" {
			return fmt.Errorf("seed depots: item at index %d: area cannot be empty", i+1)
		}

		d := domain.Depot{
			Area: area,
			Name: strings.TrimSpace(item.Name),
			Loc:  domain.Coordinates{Lat: item.Lat, Lon: item.Lng},
		}
		if !d.Loc.Valid() {
			return fmt.Errorf("seed depots: area %q: coordinates out of range", area)
		}
		depots = append(depots, d)
	}

	return UpsertDepots(ctx, db, depots)
}

// UpsertDepots inserts or replaces depot reference rows in one transaction.
func UpsertDepots(ctx context.Context, db *sql.DB, depots []domain.Depot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed depots: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO depots (area, name, lat, lon)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (area) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed depots: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range depots {
		if _, err := stmt.ExecContext(ctx, d.Area, d.Name, d.Loc.Lat, d.Loc.Lon); err != nil {
			return fmt.Errorf("seed depots: insert area=%q: %w", d.Area, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed depots: commit tx: %w", err)
	}

	return nil
}
