// Package stats runs the periodic read-only recomputation of store and
// presence aggregates, exported as Prometheus gauges.
package stats

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nshivakumar1/social-app-clone/internal/observability"
	"github.com/nshivakumar1/social-app-clone/internal/presence"
	"github.com/nshivakumar1/social-app-clone/internal/store"
)

// Worker samples the content store and presence registry on a fixed
// interval. It only reads; the store's own serialization guarantees each
// sample is a consistent snapshot.
type Worker struct {
	store    *store.Store
	registry *presence.Registry
	interval time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewWorker creates a worker sampling at the given interval.
func NewWorker(s *store.Store, r *presence.Registry, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		store:    s,
		registry: r,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sampling loop. One sample is taken immediately so the
// gauges are populated before the first tick.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.sample()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.sample()
			}
		}
	}()
}

// Stop terminates the loop and waits for it to exit. Safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Worker) sample() {
	snapshot := w.store.Stats()
	online := w.registry.OnlineCount()

	observability.StorePosts.Set(float64(snapshot.TotalPosts))
	observability.StoreLikes.Set(float64(snapshot.TotalLikes))
	observability.StoreComments.Set(float64(snapshot.TotalComments))
	observability.OnlineUsers.Set(float64(online))

	w.logger.Debug("stats sampled",
		"posts", snapshot.TotalPosts,
		"likes", snapshot.TotalLikes,
		"comments", snapshot.TotalComments,
		"online", online,
	)
}
