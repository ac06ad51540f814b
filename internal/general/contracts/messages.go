package contracts

import "time"

// Envelope carries cross-cutting metadata on every published message.
type Envelope struct {
	Producer      string `json:"producer,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// GeoPoint represents a simple latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationReport mirrors a single location sample on the wire.
type LocationReport struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	SpeedKmh       *float64  `json:"speed_kmh,omitempty"`
	HeadingDegrees *float64  `json:"heading_degrees,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// JourneyStartedMessage is published on TopicJourneyStarted when a run
// session is created.
type JourneyStartedMessage struct {
	RunID     string    `json:"run_id"`
	DriverRef string    `json:"driver_ref"`
	Pickup    GeoPoint  `json:"pickup_location"`
	Dropoff   GeoPoint  `json:"dropoff_location"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}

// LocationUpdatedMessage is published on TopicLocationUpdated for every
// accepted location report.
type LocationUpdatedMessage struct {
	RunID     string         `json:"run_id"`
	Location  LocationReport `json:"location"`
	Timestamp time.Time      `json:"timestamp"`
	Envelope
}

// GeofenceEnteredMessage is published on TopicGeofenceEntered whenever a
// report lands inside an active geofence.
//
// NOTE: containment is re-evaluated from scratch on every report with no
// memory of previous membership. A vehicle idling inside a fence therefore
// re-emits this message on each report, and there is no "exited"
// counterpart. Consumers must treat it as a polling signal ("currently
// inside"), not as a one-time transition.
type GeofenceEnteredMessage struct {
	RunID        string         `json:"run_id"`
	GeofenceID   string         `json:"geofence_id"`
	GeofenceName string         `json:"geofence_name"`
	GeofenceKind string         `json:"geofence_kind"`
	Location     LocationReport `json:"location"`
	Timestamp    time.Time      `json:"timestamp"`
	Envelope
}

// ETAUpdatedMessage is published on TopicETAUpdated after each successful
// arrival estimate. Estimates assume a fixed average speed; they carry no
// traffic awareness.
type ETAUpdatedMessage struct {
	RunID                   string    `json:"run_id"`
	EstimatedArrival        time.Time `json:"estimated_arrival"`
	DistanceMetersRemaining float64   `json:"distance_meters_remaining"`
	DurationSecondsEstimate float64   `json:"duration_seconds_estimate"`
	Timestamp               time.Time `json:"timestamp"`
	Envelope
}

// JourneyEndedMessage is published on TopicJourneyEnded with the final
// journey summary, after the session is removed from the store.
type JourneyEndedMessage struct {
	RunID               string    `json:"run_id"`
	StartedAt           time.Time `json:"started_at"`
	EndedAt             time.Time `json:"ended_at"`
	DurationSeconds     int64     `json:"duration_seconds"`
	TotalDistanceMeters float64   `json:"total_distance_meters"`
	PointCount          int       `json:"point_count"`
	Timestamp           time.Time `json:"timestamp"`
	Envelope
}
