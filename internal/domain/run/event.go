package run

import (
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"time"
)

// EventType corresponds to the values in the `tracking_event_type` column.
type EventType string

const (
	EventJourneyStarted  EventType = "JOURNEY_STARTED"
	EventLocationUpdated EventType = "LOCATION_UPDATED"
	EventGeofenceEntered EventType = "GEOFENCE_ENTERED"
	EventETAUpdated      EventType = "ETA_UPDATED"
	EventJourneyEnded    EventType = "JOURNEY_ENDED"
)

var ErrInvalidEventType = errors.New("invalid tracking event type")

// ParseEventType normalizes (uppercases+trims) and validates an event type string.
func ParseEventType(input string) (EventType, error) {
	eventType := EventType(strings.ToUpper(strings.TrimSpace(input)))
	if eventType.Valid() {
		return eventType, nil
	}
	return "", ErrInvalidEventType
}

// Valid reports whether eventType is one of the allowed event type constants.
func (eventType EventType) Valid() bool {
	switch eventType {
	case EventJourneyStarted,
		EventLocationUpdated,
		EventGeofenceEntered,
		EventETAUpdated,
		EventJourneyEnded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the EventType.
func (eventType EventType) String() string {
	return string(eventType)
}

// Event is the domain entity corresponding to the `tracking_events` table.
// Events are transient in the session; the durable copies live in the event
// archive and on the message bus.
type Event struct {
	ID        string
	CreatedAt time.Time

	RunID string

	Type EventType
	Data map[string]any
}

var (
	ErrEventRunIDRequired = errors.New("run id is required")
	ErrEventDataNil       = errors.New("event data must not be nil")
)

// NewEvent constructs a new domain Event.
func NewEvent(runID string, eventType EventType, eventData map[string]any) (*Event, error) {
	if runID = strings.TrimSpace(runID); runID == "" {
		return nil, ErrEventRunIDRequired
	}
	if !eventType.Valid() {
		return nil, ErrInvalidEventType
	}
	if eventData == nil {
		return nil, ErrEventDataNil
	}

	return &Event{
		RunID:     runID,
		Type:      eventType,
		Data:      cloneMap(eventData),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DataJSON returns event.Data encoded as JSON.
func (event *Event) DataJSON() ([]byte, error) {
	if event.Data == nil {
		return nil, ErrEventDataNil
	}
	return json.Marshal(event.Data)
}

// cloneMap makes a shallow defensive copy of a map[string]any.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	maps.Copy(dst, src)
	return dst
}
