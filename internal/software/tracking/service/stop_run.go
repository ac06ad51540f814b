package service

import (
	"context"
	"encoding/json"
	"time"

	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/general/contracts"
	"fleet-tracking/internal/ports"
)

// StopRun ends a tracked run and returns the final journey summary. The
// session is removed from the store before the completion event is emitted:
// once StopRun commits, a fresh StartRun for the same run succeeds even if
// archiving or publishing the summary afterwards fails.
func (service *trackingService) StopRun(ctx context.Context, runID string) (run.Summary, error) {
	corrID := generateCorrelationID()

	session, err := service.sessions.remove(runID)
	if err != nil {
		service.logger.Error(ctx, "run_stop_no_session", "Stop requested for a run that is not tracked", err, map[string]any{
			"run_id":     runID,
			"request_id": corrID,
		})
		return run.Summary{}, err
	}

	// wait for any in-flight report to drain before summarizing
	session.mu.Lock()
	defer session.mu.Unlock()

	endedAt := time.Now().UTC()
	summary := session.journey.Summarize(runID, endedAt)

	service.archiveEvent(ctx, runID, run.EventJourneyEnded, map[string]any{
		"started_at":            summary.StartTime,
		"ended_at":              summary.EndTime,
		"duration_seconds":      summary.DurationSeconds,
		"total_distance_meters": summary.TotalDistanceMeters,
		"point_count":           summary.PointCount,
	})

	endMsg := contracts.JourneyEndedMessage{
		RunID:               runID,
		StartedAt:           summary.StartTime,
		EndedAt:             summary.EndTime,
		DurationSeconds:     summary.DurationSeconds,
		TotalDistanceMeters: summary.TotalDistanceMeters,
		PointCount:          summary.PointCount,
		Timestamp:           time.Now().UTC(),
		Envelope:            envelope(corrID),
	}
	service.publishTopic(ctx, contracts.TopicJourneyEnded, runID, endMsg)

	// give live subscribers the final summary before they are let go
	if payload, merr := json.Marshal(endMsg); merr == nil {
		service.notifySubscribers(ctx, runID, session.snapshotSubscribers(), payload)
	}
	session.subscribers = make(map[string]ports.Subscriber)

	service.logger.Info(ctx, "run_tracking_stopped", "Run tracking stopped", map[string]any{
		"run_id":                runID,
		"duration_seconds":      summary.DurationSeconds,
		"total_distance_meters": summary.TotalDistanceMeters,
		"point_count":           summary.PointCount,
		"request_id":            corrID,
	})

	return summary, nil
}
