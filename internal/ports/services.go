package ports

import (
	"context"
	"time"

	"fleet-tracking/internal/domain/run"
)

// ----- DTOs for the Tracking Service -----

// GeoPoint represents a simple latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StartRunInput is the validated input for POST /runs/{run_id}/start.
type StartRunInput struct {
	RunID       string   // from path
	RouteName   string   // from body
	DriverRef   string   // from body
	StudentRefs []string // from body, opaque to the engine
	Pickup      GeoPoint // from body
	Dropoff     GeoPoint // from body
}

// StartRunResult matches the API response for starting run tracking.
type StartRunResult struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"` // "TRACKING"
	StartedAt time.Time `json:"started_at"`
	Message   string    `json:"message"`
}

// UpdateLocationInput is the validated input for POST /runs/{run_id}/location.
type UpdateLocationInput struct {
	RunID          string    // from path
	Latitude       float64   // from body
	Longitude      float64   // from body
	AccuracyMeters *float64  // optional
	SpeedKmh       *float64  // optional
	HeadingDegrees *float64  // optional
	RecordedAt     time.Time // optional; zero means "now"
}

// UpdateLocationResult matches the API response for a location update.
type UpdateLocationResult struct {
	RunID      string    `json:"run_id"`
	PointCount int       `json:"point_count"`
	ReceivedAt time.Time `json:"received_at"`
}

// RunStatusResult is returned by GET /runs/{run_id}/status.
type RunStatusResult struct {
	RunID              string     `json:"run_id"`
	Status             string     `json:"status"` // "TRACKING"
	StartedAt          time.Time  `json:"started_at"`
	PointCount         int        `json:"point_count"`
	SubscriberCount    int        `json:"subscriber_count"`
	LastLocation       *GeoPoint  `json:"last_location,omitempty"`
	LastRecordedAt     *time.Time `json:"last_recorded_at,omitempty"`
	LatestETA          *run.ETA   `json:"latest_eta,omitempty"`
}

// LatestLocationResult is returned by GET /runs/{run_id}/location.
type LatestLocationResult struct {
	RunID          string     `json:"run_id"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	SpeedKmh       *float64   `json:"speed_kmh,omitempty"`
	HeadingDegrees *float64   `json:"heading_degrees,omitempty"`
	RecordedAt     time.Time  `json:"recorded_at"`
}

// ----- Tracking Service Interface -----

// TrackingService exposes the boundary of the run-tracking engine. All
// operations on the same run are serialized in submission order; operations
// on distinct runs proceed concurrently.
type TrackingService interface {
	StartRun(ctx context.Context, in StartRunInput) (StartRunResult, error)
	UpdateLocation(ctx context.Context, in UpdateLocationInput) (UpdateLocationResult, error)
	StopRun(ctx context.Context, runID string) (run.Summary, error)
	GetStatus(ctx context.Context, runID string) (RunStatusResult, error)
	GetLatestLocation(ctx context.Context, runID string) (LatestLocationResult, error)
	Subscribe(runID string, sub Subscriber)
	Unsubscribe(runID string, subscriberID string)
}
