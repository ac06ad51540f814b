package run

import (
	"errors"
	"strings"

	"fleet-tracking/internal/domain/geo"
)

// Snapshot carries the run identity and coordinates the engine needs at
// start time. The driver and student references are opaque to the tracking
// core; it never dereferences them. The snapshot is taken once by
// StartTracking and is not refreshed afterwards.
type Snapshot struct {
	RunID     string
	RouteName string
	DriverRef string
	StudentRefs []string
	Pickup    geo.Point
	Dropoff   geo.Point
}

var (
	ErrEmptyRunID   = errors.New("run id cannot be empty")
	ErrEmptyDriver  = errors.New("driver reference cannot be empty")
)

// Validate checks invariants of the Snapshot.
func (snapshot Snapshot) Validate() error {
	if strings.TrimSpace(snapshot.RunID) == "" {
		return ErrEmptyRunID
	}
	if strings.TrimSpace(snapshot.DriverRef) == "" {
		return ErrEmptyDriver
	}
	if snapshot.Pickup.Latitude < -90 || snapshot.Pickup.Latitude > 90 {
		return geo.ErrInvalidLatitude
	}
	if snapshot.Pickup.Longitude < -180 || snapshot.Pickup.Longitude > 180 {
		return geo.ErrInvalidLongitude
	}
	if snapshot.Dropoff.Latitude < -90 || snapshot.Dropoff.Latitude > 90 {
		return geo.ErrInvalidLatitude
	}
	if snapshot.Dropoff.Longitude < -180 || snapshot.Dropoff.Longitude > 180 {
		return geo.ErrInvalidLongitude
	}
	return nil
}
