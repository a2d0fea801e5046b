package server

import (
	"context"
	"encoding/json"
	"log"

	"github.com/nshivakumar1/social-app-clone/internal/notifications"
	"github.com/nshivakumar1/social-app-clone/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated   = "post_created"
	EventPostLiked     = "post_liked"
	EventCommentAdded  = "comment_added"
	EventPostDeleted   = "post_deleted"
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventPresenceCount = "presence_count"
	EventUserTyping    = "user_typing"
	EventError         = "error"
)

// marshalEvent builds the single wire frame for an event. Marshaling happens
// once per event; every recipient gets the same bytes.
func marshalEvent(eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
}

// publishBroadcastEvent delivers a content event to every connection,
// including the originator. When the Redis mirror is enabled the event takes
// the pub/sub path and the subscriber feeds it back into the hub, so it is
// delivered exactly once either way.
func (s *Server) publishBroadcastEvent(eventType string, payload interface{}) {
	message, err := marshalEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()

	if s.notifier.Enabled() {
		if err := s.notifier.PublishBroadcast(context.Background(), string(message)); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
		return
	}
	s.hub.BroadcastAll(message)
}

// publishPresenceEvent delivers a presence event to every connection.
// Presence is process-local state, so these never pass through Redis.
func (s *Server) publishPresenceEvent(eventType string, payload interface{}) {
	message, err := marshalEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	s.hub.BroadcastAll(message)
}

// publishOthersEvent delivers an event to every connection except origin.
// Used for joins, leaves, and typing, where the originator already knows its
// own state.
func (s *Server) publishOthersEvent(origin *notifications.Client, eventType string, payload interface{}) {
	message, err := marshalEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	s.hub.BroadcastOthers(origin, message)
}
