package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"fleet-tracking/internal/general/logger"
	"fleet-tracking/internal/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub tracks the live WebSocket clients of each run and bridges updates
// between service instances over Redis pub/sub. Clients registered here are
// handed to the tracking engine as opaque subscriber handles; the hub's own
// registry exists so that updates published by sibling instances can still
// reach clients connected to this one.
type Hub struct {
	redis  *redis.Client
	logger *logger.Logger
	buffer int

	// instanceID marks payloads this hub publishes so its own subscription
	// can skip them; local clients are already notified directly.
	instanceID string

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // runID -> clients
}

// NewHub creates a Hub. A nil redis client disables cross-instance fanout.
func NewHub(redisClient *redis.Client, logger *logger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	h := &Hub{
		redis:      redisClient,
		logger:     logger,
		buffer:     buffer,
		instanceID: uuid.NewString(),
		clients:    make(map[string]map[*Client]struct{}),
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

// Register creates a new client handle bound to a run.
func (h *Hub) Register(runID string) *Client {
	client := &Client{
		id:    uuid.NewString(),
		runID: runID,
		send:  make(chan []byte, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[runID] == nil {
		h.clients[runID] = make(map[*Client]struct{})
	}
	h.clients[runID][client] = struct{}{}
	return client
}

// Unregister removes a client and closes its outbound queue.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if runClients, ok := h.clients[client.runID]; ok {
		delete(runClients, client)
		if len(runClients) == 0 {
			delete(h.clients, client.runID)
		}
	}
	client.closeOnce.Do(func() { close(client.send) })
}

// relayEnvelope wraps relayed payloads with the publishing instance so the
// subscription loop can tell remote updates from its own.
type relayEnvelope struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// Relay publishes a run update to sibling instances via Redis. Local
// clients are notified directly by the engine through their handles, so
// the subscription loop skips payloads that originated here.
func (h *Hub) Relay(runID string, payload []byte) {
	if h.redis == nil {
		return
	}

	wrapped, err := json.Marshal(relayEnvelope{Origin: h.instanceID, Data: payload})
	if err != nil {
		h.logger.Error(context.Background(), "redis_relay_encode_failed", "Failed to encode relay envelope", err,
			map[string]any{"run_id": runID})
		return
	}
	if err := h.redis.Publish(context.Background(), redisChannel(runID), wrapped).Err(); err != nil {
		h.logger.Error(context.Background(), "redis_relay_failed", "Failed to relay run update over Redis", err,
			map[string]any{"run_id": runID})
	}
}

var _ ports.LiveRelay = (*Hub)(nil)

// subscribeRedis forwards updates published by other instances to the
// clients connected locally.
func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "tracking:*:updates")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		runID := runIDFromChannel(msg.Channel)
		if runID == "" {
			continue
		}

		var env relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		if env.Origin == h.instanceID {
			// our own publish; local clients were notified directly
			continue
		}

		h.mu.RLock()
		clients := h.clients[runID]
		for client := range clients {
			select {
			case client.send <- []byte(env.Data):
			default:
				// slow consumer; drop
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(runID string) string {
	return "tracking:" + runID + ":updates"
}

func runIDFromChannel(ch string) string {
	const prefix = "tracking:"
	const suffix = ":updates"
	if len(ch) <= len(prefix)+len(suffix) || !strings.HasPrefix(ch, prefix) || !strings.HasSuffix(ch, suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
