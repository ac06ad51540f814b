package rabbitmq

import (
	"fmt"

	"fleet-tracking/internal/general/contracts"

	amqp "github.com/rabbitmq/amqp091-go"
)

func declareTopology(ch *amqp.Channel) error {
	// 1. Exchanges
	if err := ch.ExchangeDeclare(contracts.ExchangeTrackingTopic, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", contracts.ExchangeTrackingTopic, err)
	}

	// 2. Queues
	queues := []string{
		contracts.QueueJourneyLog,
		contracts.QueueTelemetry,
		contracts.QueueGeofenceAlerts,
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	// 3. Bindings
	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{contracts.QueueJourneyLog, contracts.ExchangeTrackingTopic, contracts.RouteJourneyPattern},
		{contracts.QueueTelemetry, contracts.ExchangeTrackingTopic, contracts.RouteTelemetryPattern},
		{contracts.QueueGeofenceAlerts, contracts.ExchangeTrackingTopic, contracts.RouteGeofencePattern},
	}

	for _, b := range bindings {
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
