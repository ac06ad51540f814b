package websocket

import (
	"errors"
	"sync"

	"fleet-tracking/internal/ports"
)

// Client is one live WebSocket subscriber of a run. It satisfies
// ports.Subscriber so the tracking engine can hold it as an opaque handle.
type Client struct {
	id    string
	runID string
	send  chan []byte

	closeOnce sync.Once
}

var _ ports.Subscriber = (*Client)(nil)

var ErrSubscriberBacklogged = errors.New("subscriber send queue is full")

// ID returns the unique handle identifier.
func (client *Client) ID() string { return client.id }

// RunID returns the run this client is subscribed to.
func (client *Client) RunID() string { return client.runID }

// Notify queues a payload for delivery. It never blocks; when the client
// cannot keep up the payload is dropped and an error is returned so the
// caller can log it.
func (client *Client) Notify(payload []byte) error {
	defer func() {
		// the queue may be closed concurrently by Unregister; a send on a
		// closed channel panics, and dropping the payload is the right
		// outcome for a client that is already gone
		_ = recover()
	}()

	select {
	case client.send <- payload:
		return nil
	default:
		return ErrSubscriberBacklogged
	}
}

// Outbound exposes the delivery queue for the connection write loop.
func (client *Client) Outbound() <-chan []byte { return client.send }
