package server

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/nshivakumar1/social-app-clone/internal/config"
	"github.com/nshivakumar1/social-app-clone/internal/notifications"
	"github.com/nshivakumar1/social-app-clone/internal/store"
)

// newTestServer builds a Server with a fresh store, no Redis mirror, and all
// routes registered on a bare Fiber app.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	cfg := &config.Config{
		Port:                 "0",
		Env:                  "test",
		TrendingLimit:        5,
		StatsIntervalSeconds: 30,
	}
	s := NewServerWithDeps(cfg, store.New(), nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// registerObserver attaches a hubless websocket client so tests can observe
// broadcast frames without a real connection.
func registerObserver(t *testing.T, s *Server) *notifications.Client {
	t.Helper()
	client, err := s.hub.Register(nil)
	require.NoError(t, err)
	s.registry.RegisterConnection(client.ConnID)
	return client
}

// nextFrame pops one pending frame off the client's send channel and decodes
// the event envelope.
func nextFrame(t *testing.T, c *notifications.Client) (string, map[string]interface{}) {
	t.Helper()

	var raw []byte
	select {
	case raw = <-c.Send:
	default:
		t.Fatalf("client %s: expected a pending frame", c.ConnID)
	}

	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &event))

	payload := map[string]interface{}{}
	if len(event.Payload) > 0 {
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
	}
	return event.Type, payload
}

// requireNoFrames asserts the client has nothing pending.
func requireNoFrames(t *testing.T, c *notifications.Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("client %s: unexpected frame %s", c.ConnID, raw)
	default:
	}
}
