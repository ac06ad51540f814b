package ports

import (
	"context"

	"fleet-tracking/internal/domain/geo"
	"fleet-tracking/internal/domain/run"
)

// GeofenceRepository is the read-only directory of geofence definitions.
// The engine queries it on demand and performs no caching of its own.
type GeofenceRepository interface {
	ListActive(ctx context.Context) ([]geo.Geofence, error)
}

// TrackingEventRepository archives emitted tracking events. Appends are
// best-effort from the engine's perspective; the durable event log is owned
// by the relational store, not by the session.
type TrackingEventRepository interface {
	Append(ctx context.Context, event *run.Event) error
}

// EventPublisher pushes a serialized payload to a named topic on the
// durable message bus (at-least-once). The engine uses it fire-and-log:
// publish failures are logged, never surfaced to callers.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
}

// LiveRelay forwards a run update to subscribers attached to other service
// instances. Best-effort; a nil or failing relay never affects the update.
type LiveRelay interface {
	Relay(runID string, payload []byte)
}

// Subscriber is an opaque live-client handle held in a run session. The
// core only ever calls Notify; it never depends on the transport behind it.
// Notify must not block: implementations drop on backpressure.
type Subscriber interface {
	ID() string
	Notify(payload []byte) error
}
