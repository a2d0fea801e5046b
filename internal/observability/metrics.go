// Package observability holds the Prometheus metrics and tracing setup
// shared across the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "social_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts broadcast events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// OnlineUsers is the gauge of distinct display names currently online.
	OnlineUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "social_online_users",
		Help: "Number of distinct display names currently online",
	})

	// StorePosts is the gauge of live posts in the content store.
	StorePosts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "social_store_posts",
		Help: "Number of live posts in the content store",
	})

	// StoreLikes is the gauge of total likes across all live posts.
	StoreLikes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "social_store_likes",
		Help: "Total likes across all live posts",
	})

	// StoreComments is the gauge of total comments across all live posts.
	StoreComments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "social_store_comments",
		Help: "Total comments across all live posts",
	})

	// NotificationSendFailures counts outbound notification sink failures by sink.
	NotificationSendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_notification_send_failures_total",
		Help: "Total outbound notification failures by sink",
	}, []string{"sink"})
)
