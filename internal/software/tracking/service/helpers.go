package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/general/contracts"
	"fleet-tracking/internal/ports"
)

const producerName = "tracking-service"

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405") // e.g., 20251028T184523
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// envelope stamps the shared message metadata.
func envelope(corrID string) contracts.Envelope {
	return contracts.Envelope{Producer: producerName, CorrelationID: corrID}
}

// publishTopic marshals a message and publishes it on the tracking topic
// exchange under the given routing key, bounded by the publish timeout.
// Failures are logged and swallowed: a broker outage must never fail the
// state change that triggered the event.
func (service *trackingService) publishTopic(ctx context.Context, topic, runID string, msg any) {
	body, err := json.Marshal(msg)
	if err != nil {
		service.logger.Error(ctx, "tracking_event_marshal_failed", "Failed to marshal tracking event", err, map[string]any{
			"topic":  topic,
			"run_id": runID,
		})
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, service.cfg.PublishTimeout)
	defer cancel()

	if err := service.pub.Publish(pubCtx, topic, body); err != nil {
		service.logger.Error(ctx, "tracking_event_publish_failed", "Failed to publish tracking event to RabbitMQ", err, map[string]any{
			"topic":  topic,
			"run_id": runID,
		})
		return
	}

	service.logger.Info(ctx, "tracking_event_published", "Published tracking event", map[string]any{
		"topic":  topic,
		"run_id": runID,
	})
}

// archiveEvent appends a tracking event to the durable archive. Best-effort:
// archive failures are logged, never surfaced.
func (service *trackingService) archiveEvent(ctx context.Context, runID string, eventType run.EventType, data map[string]any) {
	event, err := run.NewEvent(runID, eventType, data)
	if err != nil {
		service.logger.Error(ctx, "tracking_event_build_failed", "Failed to build tracking event", err, map[string]any{
			"run_id":     runID,
			"event_type": eventType.String(),
		})
		return
	}
	if err := service.events.Append(ctx, event); err != nil {
		service.logger.Error(ctx, "tracking_event_archive_failed", "Failed to archive tracking event", err, map[string]any{
			"run_id":     runID,
			"event_type": eventType.String(),
		})
	}
}

// notifySubscribers pushes a payload to the run's live subscribers and
// relays it to sibling instances. Slow subscribers drop the payload; a drop
// is logged and the pipeline moves on.
func (service *trackingService) notifySubscribers(ctx context.Context, runID string, subs []ports.Subscriber, payload []byte) {
	for _, sub := range subs {
		if err := sub.Notify(payload); err != nil {
			service.logger.Error(ctx, "subscriber_notify_dropped", "Dropped live update for slow subscriber", err, map[string]any{
				"run_id":        runID,
				"subscriber_id": sub.ID(),
			})
		}
	}
	if service.relay != nil {
		service.relay.Relay(runID, payload)
	}
}
