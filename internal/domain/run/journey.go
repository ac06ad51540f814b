package run

import (
	"time"

	"fleet-tracking/internal/domain/geo"
)

// Journey is the recorded path of one tracked run. The path is append-only
// while the run is tracked and is only summarized at stop time.
type Journey struct {
	StartTime time.Time
	EndTime   time.Time // zero until the run is stopped
	Path      []geo.Location
}

// NewJourney starts an empty journey at the given time (UTC).
func NewJourney(startedAt time.Time) Journey {
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	return Journey{StartTime: startedAt}
}

// Summary is the final journey statistics computed when a run stops.
type Summary struct {
	RunID               string    `json:"run_id"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	DurationSeconds     int64     `json:"duration_seconds"`
	TotalDistanceMeters float64   `json:"total_distance_meters"`
	PointCount          int       `json:"point_count"`
}

// Summarize closes the journey at endedAt and computes the totals. Duration
// is wall-clock elapsed between start and stop regardless of how many
// reports arrived; distance is the sum over consecutive path points.
func (journey *Journey) Summarize(runID string, endedAt time.Time) Summary {
	if endedAt.IsZero() {
		endedAt = time.Now().UTC()
	}
	journey.EndTime = endedAt

	return Summary{
		RunID:               runID,
		StartTime:           journey.StartTime,
		EndTime:             endedAt,
		DurationSeconds:     int64(endedAt.Sub(journey.StartTime).Seconds()),
		TotalDistanceMeters: geo.PathDistance(journey.Path),
		PointCount:          len(journey.Path),
	}
}

// ETA is the latest arrival estimate for a run. Only the most recent
// estimate is retained; estimates are recomputed from scratch on every
// location update rather than accumulated.
type ETA struct {
	RunID                   string    `json:"run_id"`
	EstimatedArrival        time.Time `json:"estimated_arrival"`
	DistanceMetersRemaining float64   `json:"distance_meters_remaining"`
	DurationSecondsEstimate float64   `json:"duration_seconds_estimate"`
	ComputedAt              time.Time `json:"computed_at"`
}
