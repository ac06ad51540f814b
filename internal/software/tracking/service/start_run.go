package service

import (
	"context"
	"time"

	"fleet-tracking/internal/domain/geo"
	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/general/contracts"
	"fleet-tracking/internal/ports"
)

// StartRun creates a live tracking session for the run. At most one session
// exists per run; a second start fails with run.ErrAlreadyTracking while the
// first is active.
func (service *trackingService) StartRun(ctx context.Context, in ports.StartRunInput) (ports.StartRunResult, error) {
	corrID := generateCorrelationID()

	snapshot := run.Snapshot{
		RunID:       in.RunID,
		RouteName:   in.RouteName,
		DriverRef:   in.DriverRef,
		StudentRefs: in.StudentRefs,
		Pickup:      geo.Point{Latitude: in.Pickup.Latitude, Longitude: in.Pickup.Longitude},
		Dropoff:     geo.Point{Latitude: in.Dropoff.Latitude, Longitude: in.Dropoff.Longitude},
	}
	if err := snapshot.Validate(); err != nil {
		service.logger.Error(ctx, "run_start_rejected", "Rejected invalid run start", err, map[string]any{
			"run_id":     in.RunID,
			"request_id": corrID,
		})
		return ports.StartRunResult{}, err
	}

	startedAt := time.Now().UTC()
	session := newRunSession(snapshot, run.NewJourney(startedAt))

	if err := service.sessions.put(snapshot.RunID, session); err != nil {
		service.logger.Error(ctx, "run_start_conflict", "Run is already being tracked", err, map[string]any{
			"run_id":     snapshot.RunID,
			"request_id": corrID,
		})
		return ports.StartRunResult{}, err
	}

	// the session is live; archiving and publishing are best-effort from here
	service.archiveEvent(ctx, snapshot.RunID, run.EventJourneyStarted, map[string]any{
		"route_name": snapshot.RouteName,
		"driver_ref": snapshot.DriverRef,
		"started_at": startedAt,
	})

	service.publishTopic(ctx, contracts.TopicJourneyStarted, snapshot.RunID, contracts.JourneyStartedMessage{
		RunID:     snapshot.RunID,
		DriverRef: snapshot.DriverRef,
		Pickup:    contracts.GeoPoint{Latitude: snapshot.Pickup.Latitude, Longitude: snapshot.Pickup.Longitude},
		Dropoff:   contracts.GeoPoint{Latitude: snapshot.Dropoff.Latitude, Longitude: snapshot.Dropoff.Longitude},
		StartedAt: startedAt,
		Timestamp: time.Now().UTC(),
		Envelope:  envelope(corrID),
	})

	service.logger.Info(ctx, "run_tracking_started", "Run tracking started", map[string]any{
		"run_id":     snapshot.RunID,
		"route_name": snapshot.RouteName,
		"driver_ref": snapshot.DriverRef,
		"started_at": startedAt,
		"request_id": corrID,
	})

	return ports.StartRunResult{
		RunID:     snapshot.RunID,
		Status:    "TRACKING",
		StartedAt: startedAt,
		Message:   "Run tracking started successfully",
	}, nil
}
