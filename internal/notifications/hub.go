// Package notifications provides real-time event delivery to connected
// websocket clients.
package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/nshivakumar1/social-app-clone/internal/observability"
)

// Max total connections
const maxTotalConns = 10000

// Hub fans events out to every connected client. Delivery is fire-and-forget:
// each client has its own buffered send channel, so a slow recipient never
// blocks the caller or the other recipients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "event hub" }

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a connection and returns its Client, or an error if the
// server connection limit is reached. The client's ConnID doubles as the
// presence connection handle.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	client := NewClient(h, conn, uuid.NewString())
	h.clients[client] = struct{}{}
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// UnregisterClient removes the client from the hub. Removing an unknown
// client is a no-op.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		observability.WebSocketConnectionsTotal.Dec()
	}
}

// ConnectionCount returns the number of connected clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends the message to every connected client, including the
// originator of the triggering mutation.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.TrySend(message)
	}
}

// BroadcastOthers sends the message to every connected client except origin.
// Used for presence and typing signals, where the originator already knows
// its own state.
func (h *Hub) BroadcastOthers(origin *Client, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c == origin {
			continue
		}
		c.TrySend(message)
	}
}

// StartWiring subscribes the hub to the notifier's broadcast channel so
// events published through Redis are forwarded to every local connection.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartBroadcastSubscriber(ctx, func(payload string) {
		h.BroadcastAll([]byte(payload))
	})
}

// Shutdown gracefully closes all websocket connections
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
			log.Printf("failed to write close message for conn %s: %v", client.ConnID, err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket for conn %s: %v", client.ConnID, err)
		}
	}
	h.clients = make(map[*Client]struct{})

	return nil
}
