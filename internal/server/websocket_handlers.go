package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/nshivakumar1/social-app-clone/internal/middleware"
	"github.com/nshivakumar1/social-app-clone/internal/models"
	"github.com/nshivakumar1/social-app-clone/internal/notifications"
)

// sessionState is the lifecycle of one websocket connection. A session starts
// Connected, becomes Active once it claims a display name, and ends Closed.
// There are no transitions out of Closed.
type sessionState int

const (
	stateConnected sessionState = iota
	stateActive
	stateClosed
)

// wsSession drives the per-connection state machine. The registry owns the
// presence bookkeeping; the session only tracks which lifecycle stage this
// connection is in and which name it claimed.
type wsSession struct {
	server *Server
	client *notifications.Client

	mu    sync.Mutex
	state sessionState
	name  string
}

func newWSSession(s *Server, client *notifications.Client) *wsSession {
	return &wsSession{server: s, client: client}
}

// WebsocketHandler handles WebSocket connections for the realtime feed
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		client, err := s.hub.Register(conn)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "websocket registration rejected", "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","payload":{"message":"`+err.Error()+`"}}`))
			_ = conn.Close()
			return
		}
		s.registry.RegisterConnection(client.ConnID)

		ctx = middleware.WithConnID(ctx, client.ConnID)
		middleware.Logger.InfoContext(ctx, "websocket connected")

		session := newWSSession(s, client)
		client.IncomingHandler = session.handleClientMessage

		// Greet the new connection with its handle and the current presence count
		if welcome, err := marshalEvent("connected", fiber.Map{
			"conn_id": client.ConnID,
			"online":  s.registry.OnlineCount(),
		}); err == nil {
			client.TrySend(welcome)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()

		session.closeSession(ctx)
	})
}

// handleClientMessage dispatches one inbound frame. Unknown and malformed
// frames are dropped; the protocol has no negative acks for them.
func (ws *wsSession) handleClientMessage(c *notifications.Client, message []byte) {
	var incoming struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &incoming); err != nil {
		middleware.Logger.Warn("invalid websocket frame", "conn_id", c.ConnID)
		return
	}

	switch incoming.Type {
	case "claim":
		ws.handleClaim(incoming.Name)
	case "typing":
		ws.handleTyping()
	}
}

// handleClaim binds the connection to a display name and announces the join.
// A rejected claim is reported to this connection only and leaves the session
// state untouched.
func (ws *wsSession) handleClaim(name string) {
	ws.mu.Lock()
	if ws.state == stateClosed {
		ws.mu.Unlock()
		return
	}

	result, err := ws.server.registry.Claim(ws.client.ConnID, name)
	if err != nil {
		ws.mu.Unlock()
		ws.sendError(err)
		return
	}
	ws.state = stateActive
	ws.name = name
	ws.mu.Unlock()

	// A second tab under an already-online name joins silently
	if !result.AlreadyOnline {
		ws.server.publishOthersEvent(ws.client, EventUserJoined, fiber.Map{
			"username": name,
		})
	}
	ws.server.publishPresenceEvent(EventPresenceCount, fiber.Map{
		"online": ws.server.registry.OnlineCount(),
	})
}

// handleTyping relays a typing signal to the other connections. Typing from a
// connection that never claimed a name carries no attributable author and is
// ignored.
func (ws *wsSession) handleTyping() {
	ws.mu.Lock()
	active := ws.state == stateActive
	name := ws.name
	ws.mu.Unlock()

	if !active {
		return
	}
	ws.server.publishOthersEvent(ws.client, EventUserTyping, fiber.Map{
		"username": name,
	})
}

// closeSession releases the connection's presence claim and announces the
// departure. Idempotent; the session stays Closed forever after.
func (ws *wsSession) closeSession(ctx context.Context) {
	ws.mu.Lock()
	if ws.state == stateClosed {
		ws.mu.Unlock()
		return
	}
	ws.state = stateClosed
	ws.mu.Unlock()

	result, released := ws.server.registry.Release(ws.client.ConnID)
	if released {
		if !result.StillOnline {
			ws.server.publishOthersEvent(ws.client, EventUserLeft, fiber.Map{
				"username": result.Name,
			})
		}
		ws.server.publishPresenceEvent(EventPresenceCount, fiber.Map{
			"online": ws.server.registry.OnlineCount(),
		})
	}

	middleware.Logger.InfoContext(ctx, "websocket disconnected", "claimed_name", result.Name)
}

// sendError delivers an error frame to this connection only.
func (ws *wsSession) sendError(err error) {
	payload := fiber.Map{"message": err.Error()}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		payload["code"] = appErr.Code
		payload["message"] = appErr.Message
	}

	if frame, merr := marshalEvent(EventError, payload); merr == nil {
		ws.client.TrySend(frame)
	}
}
