package service

import (
	"context"

	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/ports"
)

// GetStatus reports the live state of a tracked run.
func (service *trackingService) GetStatus(ctx context.Context, runID string) (ports.RunStatusResult, error) {
	session, err := service.sessions.get(runID)
	if err != nil {
		return ports.RunStatusResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	out := ports.RunStatusResult{
		RunID:           runID,
		Status:          "TRACKING",
		StartedAt:       session.journey.StartTime,
		PointCount:      len(session.journey.Path),
		SubscriberCount: len(session.subscribers),
	}

	if last, ok := session.lastLocation(); ok {
		point := last.Point()
		recordedAt := last.RecordedAt
		out.LastLocation = &ports.GeoPoint{Latitude: point.Latitude, Longitude: point.Longitude}
		out.LastRecordedAt = &recordedAt
	}
	if session.latestETA != nil {
		eta := *session.latestETA
		out.LatestETA = &eta
	}

	return out, nil
}

// GetLatestLocation returns the most recent accepted report for a run.
// run.ErrNoLocation is returned when the run is tracked but has no reports.
func (service *trackingService) GetLatestLocation(ctx context.Context, runID string) (ports.LatestLocationResult, error) {
	session, err := service.sessions.get(runID)
	if err != nil {
		return ports.LatestLocationResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	last, ok := session.lastLocation()
	if !ok {
		return ports.LatestLocationResult{}, run.ErrNoLocation
	}

	return ports.LatestLocationResult{
		RunID:          runID,
		Latitude:       last.Latitude,
		Longitude:      last.Longitude,
		SpeedKmh:       last.SpeedKmh,
		HeadingDegrees: last.HeadingDegrees,
		RecordedAt:     last.RecordedAt,
	}, nil
}
