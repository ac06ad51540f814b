package service

import (
	"fleet-tracking/internal/general/config"
	"fleet-tracking/internal/general/logger"
	"fleet-tracking/internal/ports"
)

// trackingService holds all dependencies required by the run-tracking engine.
type trackingService struct {
	logger    *logger.Logger
	geofences ports.GeofenceRepository
	events    ports.TrackingEventRepository
	pub       ports.EventPublisher
	relay     ports.LiveRelay
	cfg       config.TrackingConfig

	sessions *sessionStore
}

// NewTrackingService constructs the engine with required dependencies. The
// relay may be nil when the service runs as a single instance.
func NewTrackingService(
	logger *logger.Logger,
	geofences ports.GeofenceRepository,
	events ports.TrackingEventRepository,
	pub ports.EventPublisher,
	relay ports.LiveRelay,
	cfg config.TrackingConfig,
) ports.TrackingService {
	return &trackingService{
		logger:    logger,
		geofences: geofences,
		events:    events,
		pub:       pub,
		relay:     relay,
		cfg:       cfg,
		sessions:  newSessionStore(),
	}
}
