package notifications

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// broadcastChannel carries content-mutation events. Presence and typing
// signals never pass through Redis; they are process-local and delivered
// directly by the hub.
const broadcastChannel = "events:broadcast"

// Notifier mirrors broadcast events through Redis pub/sub. A nil Redis
// client disables it entirely; every method becomes a no-op and the hub
// delivers events directly.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether the notifier has a Redis client to publish through.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishBroadcast sends an event payload to the broadcast channel.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// StartBroadcastSubscriber subscribes to the broadcast channel and calls
// onMessage for each incoming payload.
func (n *Notifier) StartBroadcastSubscriber(
	ctx context.Context, onMessage func(payload string),
) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, broadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in BroadcastSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
