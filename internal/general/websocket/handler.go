package websocket

import (
	"net/http"
	"strings"
	"time"

	"fleet-tracking/internal/domain/user"
	"fleet-tracking/internal/general/jwt"
	"fleet-tracking/internal/general/logger"
	"fleet-tracking/internal/ports"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocket serves the live run-subscription endpoint with JWT auth.
type WebSocket struct {
	logger *logger.Logger
	jwtMgr *jwt.Manager
	hub    *Hub
	svc    ports.TrackingService
}

// NewWebSocket creates the WebSocket handler.
func NewWebSocket(logger *logger.Logger, jwtMgr *jwt.Manager, hub *Hub, svc ports.TrackingService) *WebSocket {
	return &WebSocket{logger: logger, jwtMgr: jwtMgr, hub: hub, svc: svc}
}

// ConnectRun handles GET /runs/{run_id}/ws. The token travels in the
// Authorization header or query parameter since browsers cannot set headers
// on WebSocket upgrades.
func (ws *WebSocket) ConnectRun(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.PathValue("run_id"))
	if runID == "" {
		http.Error(w, "missing run_id in path", http.StatusBadRequest)
		return
	}

	// authenticate before upgrading
	raw, err := jwt.FromAuthorization(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	_, claims, err := ws.jwtMgr.ParseAndValidate(raw)
	if err != nil {
		http.Error(w, "authentication failed: invalid token", http.StatusUnauthorized)
		return
	}
	if err := jwt.RoleAllowed(claims, user.RoleDriver, user.RoleDispatcher, user.RoleAdmin); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error(r.Context(), "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}
	defer conn.Close()

	// register the handle; a late subscribe to a just-stopped run is a
	// tolerated no-op in the engine, the client simply receives nothing
	client := ws.hub.Register(runID)
	ws.svc.Subscribe(runID, client)
	defer func() {
		ws.svc.Unsubscribe(runID, client.ID())
		ws.hub.Unregister(client)
	}()

	ws.logger.Info(r.Context(), "ws_connected", "Run subscriber connected",
		map[string]any{"run_id": runID, "subscriber_id": client.ID(), "user_id": claims.Subject})

	// writer: drain the outbound queue and keep the connection alive
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case payload, ok := <-client.Outbound():
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					_ = conn.Close()
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	// reader: subscribers do not send data; the loop only detects closure
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Error(r.Context(), "ws_unexpected_close", "Subscriber connection closed unexpectedly", err,
					map[string]any{"run_id": runID, "subscriber_id": client.ID()})
			} else {
				ws.logger.Info(r.Context(), "ws_connection_closed", "Subscriber connection closed",
					map[string]any{"run_id": runID, "subscriber_id": client.ID()})
			}
			break
		}
	}

	ws.hub.Unregister(client)
	<-done
}
