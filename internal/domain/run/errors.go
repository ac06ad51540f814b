package run

import "errors"

var (
	// ErrAlreadyTracking is returned when StartTracking is called for a run
	// that already has an active session.
	ErrAlreadyTracking = errors.New("run is already being tracked")

	// ErrNotTracking is returned when an update, stop, or status call hits a
	// run without an active session.
	ErrNotTracking = errors.New("run is not being tracked")

	// ErrNoLocation is returned when the latest location is requested before
	// any report has been accepted.
	ErrNoLocation = errors.New("no location reported yet")
)
