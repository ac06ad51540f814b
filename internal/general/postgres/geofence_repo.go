package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fleet-tracking/internal/domain/geo"
	"fleet-tracking/internal/ports"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GeofenceRepo reads geofence definitions using pgx and plain SQL. The
// boundary polygon is stored as a JSONB array of {latitude, longitude}
// vertices in the `geofences` table.
type GeofenceRepo struct {
	db *pgxpool.Pool
}

// NewGeofenceRepo constructs a new GeofenceRepo.
func NewGeofenceRepo(db *pgxpool.Pool) ports.GeofenceRepository {
	return &GeofenceRepo{db: db}
}

// ListActive returns every geofence currently flagged active. Rows with a
// malformed kind or boundary are skipped rather than failing the whole
// listing.
func (repo *GeofenceRepo) ListActive(ctx context.Context) ([]geo.Geofence, error) {
	rows, err := repo.db.Query(ctx, `
		SELECT id, name, kind, boundary, is_active
		FROM geofences
		WHERE is_active = true
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list active geofences: %w", err)
	}
	defer rows.Close()

	var fences []geo.Geofence
	for rows.Next() {
		var (
			fence    geo.Geofence
			kind     string
			boundary []byte
		)
		if err := rows.Scan(&fence.ID, &fence.Name, &kind, &boundary, &fence.Active); err != nil {
			return nil, fmt.Errorf("scan geofence row: %w", err)
		}

		parsedKind, err := geo.ParseFenceKind(kind)
		if err != nil {
			continue
		}
		fence.Kind = parsedKind

		if err := json.Unmarshal(boundary, &fence.Boundary); err != nil {
			continue
		}
		if fence.Validate() != nil {
			continue
		}

		fences = append(fences, fence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate geofence rows: %w", err)
	}

	return fences, nil
}
