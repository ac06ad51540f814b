package contracts

// Exchanges
const (
	ExchangeTrackingTopic = "tracking_topic"
)

// Queues
const (
	QueueJourneyLog        = "tracking_journey_log"
	QueueTelemetry         = "tracking_telemetry"
	QueueGeofenceAlerts    = "tracking_geofence_alerts"
)

// Topics published by the tracking engine. These names are stable for
// consumers and double as routing keys on ExchangeTrackingTopic.
const (
	TopicJourneyStarted  = "tracking.journey.started"
	TopicLocationUpdated = "tracking.location.updated"
	TopicGeofenceEntered = "tracking.geofence.entered"
	TopicETAUpdated      = "tracking.eta.updated"
	TopicJourneyEnded    = "tracking.journey.ended"
)

// Binding patterns
const (
	RouteJourneyPattern   = "tracking.journey.*"
	RouteTelemetryPattern = "tracking.#"
	RouteGeofencePattern  = "tracking.geofence.*"
)
