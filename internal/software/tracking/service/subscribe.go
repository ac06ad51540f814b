package service

import (
	"context"

	"fleet-tracking/internal/ports"
)

// Subscribe attaches a live subscriber handle to a run session. Subscribing
// to a run that is not tracked is a tolerated no-op: the handle simply never
// receives anything.
func (service *trackingService) Subscribe(runID string, sub ports.Subscriber) {
	session, err := service.sessions.get(runID)
	if err != nil {
		service.logger.Info(context.Background(), "subscribe_no_session", "Subscription to an untracked run ignored", map[string]any{
			"run_id":        runID,
			"subscriber_id": sub.ID(),
		})
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.subscribers[sub.ID()] = sub
}

// Unsubscribe detaches a subscriber handle. Unknown handles are ignored.
func (service *trackingService) Unsubscribe(runID string, subscriberID string) {
	session, err := service.sessions.get(runID)
	if err != nil {
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	delete(session.subscribers, subscriberID)
}
