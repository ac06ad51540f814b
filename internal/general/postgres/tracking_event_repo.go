package postgres

import (
	"context"

	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/ports"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TrackingEventRepo persists tracking events using pgx and plain SQL.
type TrackingEventRepo struct {
	db *pgxpool.Pool
}

// NewTrackingEventRepo constructs a new TrackingEventRepo.
func NewTrackingEventRepo(db *pgxpool.Pool) ports.TrackingEventRepository {
	return &TrackingEventRepo{db: db}
}

// Append inserts a new tracking_events row.
func (repo *TrackingEventRepo) Append(ctx context.Context, event *run.Event) error {
	// serialize event data to JSON
	data, err := event.DataJSON()
	if err != nil {
		return err
	}

	// insert tracking event record
	err = repo.db.QueryRow(ctx, `
		INSERT INTO tracking_events (run_id, event_type, event_data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, created_at
	`,
		event.RunID,
		event.Type.String(),
		string(data),
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}
