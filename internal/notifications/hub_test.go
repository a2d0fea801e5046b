package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

// drain reads one pending message from the client's send channel.
func drain(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	default:
		t.Fatalf("client %s: expected a pending message", c.ConnID)
		return nil
	}
}

func TestHub_RegisterAssignsUniqueConnIDs(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(nil)
	require.NoError(t, err)
	b, err := hub.Register(nil)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ConnID)
	assert.NotEmpty(t, b.ConnID)
	assert.NotEqual(t, a.ConnID, b.ConnID)
	assert.Equal(t, 2, hub.ConnectionCount())
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(nil)
	require.NoError(t, err)
	b, err := hub.Register(nil)
	require.NoError(t, err)

	hub.BroadcastAll([]byte(`{"type":"post_created"}`))

	assert.Equal(t, `{"type":"post_created"}`, string(drain(t, a)))
	assert.Equal(t, `{"type":"post_created"}`, string(drain(t, b)))
}

func TestHub_BroadcastOthersSkipsOrigin(t *testing.T) {
	hub := NewHub()

	origin, err := hub.Register(nil)
	require.NoError(t, err)
	other, err := hub.Register(nil)
	require.NoError(t, err)

	hub.BroadcastOthers(origin, []byte(`{"type":"user_typing"}`))

	assert.Equal(t, `{"type":"user_typing"}`, string(drain(t, other)))
	assert.Empty(t, origin.Send)
}

func TestHub_UnregisteredClientReceivesNothing(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(nil)
	require.NoError(t, err)
	b, err := hub.Register(nil)
	require.NoError(t, err)

	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.BroadcastAll([]byte(`x`))
	assert.Empty(t, a.Send)
	assert.Equal(t, `x`, string(drain(t, b)))

	// Double unregister is a no-op
	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.ConnectionCount())
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	slow, err := hub.Register(nil)
	require.NoError(t, err)

	// Fill the buffer without draining; the extra sends must return
	// immediately instead of blocking the broadcaster.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(slow.Send)+10; i++ {
			hub.BroadcastAll([]byte(`m`))
		}
	}()

	select {
	case <-done:
	case <-time.After(testEventuallyTimeout):
		t.Fatal("broadcast blocked on a slow client")
	}
	assert.Len(t, slow.Send, cap(slow.Send))
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()

	_, err := hub.Register(nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Equal(t, 0, hub.ConnectionCount())
}
