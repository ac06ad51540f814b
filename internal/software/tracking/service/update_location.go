package service

import (
	"context"
	"encoding/json"
	"time"

	"fleet-tracking/internal/domain/geo"
	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/general/contracts"
	"fleet-tracking/internal/ports"
)

// UpdateLocation appends a location report to the run's journey and drives
// the per-report pipeline: geofence evaluation, ETA recomputation, event
// publication, and live subscriber notification. The session mutex is held
// for the whole pipeline, so reports for one run are processed strictly in
// submission order; the client-supplied recorded_at never reorders the path.
//
// Only the append can fail the call. Every downstream step is isolated:
// a geofence directory outage, a broker outage, or a slow subscriber is
// logged and the update still succeeds.
func (service *trackingService) UpdateLocation(ctx context.Context, in ports.UpdateLocationInput) (ports.UpdateLocationResult, error) {
	corrID := generateCorrelationID()

	location, err := geo.NewLocation(in.Latitude, in.Longitude, in.AccuracyMeters, in.SpeedKmh, in.HeadingDegrees, in.RecordedAt)
	if err != nil {
		service.logger.Error(ctx, "location_report_rejected", "Rejected invalid location report", err, map[string]any{
			"run_id":     in.RunID,
			"latitude":   in.Latitude,
			"longitude":  in.Longitude,
			"request_id": corrID,
		})
		return ports.UpdateLocationResult{}, err
	}

	session, err := service.sessions.get(in.RunID)
	if err != nil {
		service.logger.Error(ctx, "location_report_no_session", "Location report for a run that is not tracked", err, map[string]any{
			"run_id":     in.RunID,
			"request_id": corrID,
		})
		return ports.UpdateLocationResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.journey.Path = append(session.journey.Path, location)
	pointCount := len(session.journey.Path)
	receivedAt := time.Now().UTC()

	report := contracts.LocationReport{
		Latitude:       location.Latitude,
		Longitude:      location.Longitude,
		AccuracyMeters: location.AccuracyMeters,
		SpeedKmh:       location.SpeedKmh,
		HeadingDegrees: location.HeadingDegrees,
		RecordedAt:     location.RecordedAt,
	}

	service.checkGeofences(ctx, session, location, report, corrID)
	service.updateETA(ctx, session, location, corrID)

	service.archiveEvent(ctx, in.RunID, run.EventLocationUpdated, map[string]any{
		"latitude":    location.Latitude,
		"longitude":   location.Longitude,
		"recorded_at": location.RecordedAt,
		"point_count": pointCount,
	})

	locMsg := contracts.LocationUpdatedMessage{
		RunID:     in.RunID,
		Location:  report,
		Timestamp: receivedAt,
		Envelope:  envelope(corrID),
	}
	service.publishTopic(ctx, contracts.TopicLocationUpdated, in.RunID, locMsg)

	if payload, merr := json.Marshal(locMsg); merr == nil {
		service.notifySubscribers(ctx, in.RunID, session.snapshotSubscribers(), payload)
	}

	service.logger.Info(ctx, "run_location_updated", "Run location appended", map[string]any{
		"run_id":      in.RunID,
		"lat":         location.Latitude,
		"lng":         location.Longitude,
		"point_count": pointCount,
		"request_id":  corrID,
	})

	return ports.UpdateLocationResult{
		RunID:      in.RunID,
		PointCount: pointCount,
		ReceivedAt: receivedAt,
	}, nil
}

// checkGeofences evaluates the report against every active geofence.
// Containment is recomputed from scratch on each report: a vehicle idling
// inside a fence re-emits the entered event every time, and no exit event
// exists. Best-effort; a directory failure only logs.
func (service *trackingService) checkGeofences(ctx context.Context, session *runSession, location geo.Location, report contracts.LocationReport, corrID string) {
	fenceCtx, cancel := context.WithTimeout(ctx, service.cfg.GeofenceTimeout)
	defer cancel()

	fences, err := service.geofences.ListActive(fenceCtx)
	if err != nil {
		service.logger.Error(ctx, "geofence_lookup_failed", "Failed to load active geofences", err, map[string]any{
			"run_id":     session.snapshot.RunID,
			"request_id": corrID,
		})
		return
	}

	point := location.Point()
	for _, fence := range fences {
		if !fence.Contains(point) {
			continue
		}

		service.archiveEvent(ctx, session.snapshot.RunID, run.EventGeofenceEntered, map[string]any{
			"geofence_id":   fence.ID,
			"geofence_name": fence.Name,
			"geofence_kind": fence.Kind.String(),
			"latitude":      location.Latitude,
			"longitude":     location.Longitude,
		})

		service.publishTopic(ctx, contracts.TopicGeofenceEntered, session.snapshot.RunID, contracts.GeofenceEnteredMessage{
			RunID:        session.snapshot.RunID,
			GeofenceID:   fence.ID,
			GeofenceName: fence.Name,
			GeofenceKind: fence.Kind.String(),
			Location:     report,
			Timestamp:    time.Now().UTC(),
			Envelope:     envelope(corrID),
		})

		service.logger.Info(ctx, "geofence_entered", "Run entered geofence", map[string]any{
			"run_id":        session.snapshot.RunID,
			"geofence_id":   fence.ID,
			"geofence_name": fence.Name,
			"request_id":    corrID,
		})
	}
}

// updateETA recomputes the arrival estimate from the straight-line distance
// to the dropoff at the configured average speed. The estimate replaces the
// previous one; the session never accumulates a history of estimates.
func (service *trackingService) updateETA(ctx context.Context, session *runSession, location geo.Location, corrID string) {
	if service.cfg.AverageSpeedKmh <= 0 {
		return
	}

	distM := geo.Haversine(location.Point(), session.snapshot.Dropoff)
	durationSec := distM / 1000.0 / service.cfg.AverageSpeedKmh * 3600.0
	now := time.Now().UTC()

	eta := run.ETA{
		RunID:                   session.snapshot.RunID,
		EstimatedArrival:        now.Add(time.Duration(durationSec * float64(time.Second))),
		DistanceMetersRemaining: distM,
		DurationSecondsEstimate: durationSec,
		ComputedAt:              now,
	}
	session.latestETA = &eta

	service.archiveEvent(ctx, session.snapshot.RunID, run.EventETAUpdated, map[string]any{
		"estimated_arrival":         eta.EstimatedArrival,
		"distance_meters_remaining": eta.DistanceMetersRemaining,
		"duration_seconds_estimate": eta.DurationSecondsEstimate,
	})

	service.publishTopic(ctx, contracts.TopicETAUpdated, session.snapshot.RunID, contracts.ETAUpdatedMessage{
		RunID:                   eta.RunID,
		EstimatedArrival:        eta.EstimatedArrival,
		DistanceMetersRemaining: eta.DistanceMetersRemaining,
		DurationSecondsEstimate: eta.DurationSecondsEstimate,
		Timestamp:               now,
		Envelope:                envelope(corrID),
	})
}
