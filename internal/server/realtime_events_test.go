package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshivakumar1/social-app-clone/internal/config"
	"github.com/nshivakumar1/social-app-clone/internal/models"
	"github.com/nshivakumar1/social-app-clone/internal/store"
)

func newMirroredServer(t *testing.T) *Server {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Port:                 "0",
		Env:                  "test",
		RedisURL:             "redis://" + mr.Addr(),
		TrendingLimit:        5,
		StatsIntervalSeconds: 30,
	}
	return NewServerWithDeps(cfg, store.New(), rdb)
}

func TestPublishBroadcastEvent_DirectWithoutRedis(t *testing.T) {
	s, _ := newTestServer(t)
	observer := registerObserver(t, s)

	s.publishBroadcastEvent(EventPostDeleted, fiber.Map{"post_id": "p1"})

	eventType, payload := nextFrame(t, observer)
	assert.Equal(t, EventPostDeleted, eventType)
	assert.Equal(t, "p1", payload["post_id"])
}

func TestPublishBroadcastEvent_ViaRedisMirror(t *testing.T) {
	s := newMirroredServer(t)
	observer := registerObserver(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.hub.StartWiring(ctx, s.notifier))

	// Content events take the pub/sub path; the subscriber feeds them back
	// into the hub exactly once.
	assert.Eventually(t, func() bool {
		s.publishBroadcastEvent(EventPostLiked, fiber.Map{"post_id": "p1", "likes": 3})
		select {
		case <-observer.Send:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

// TestEventStream_ReconstructsStoreState applies the broadcast frames from a
// mutation sequence to a client-side mirror and checks the mirror ends up
// identical to the store itself.
func TestEventStream_ReconstructsStoreState(t *testing.T) {
	s, _ := newTestServer(t)
	observer := registerObserver(t, s)

	created, err := s.store.CreatePost("bob", "hi #test")
	require.NoError(t, err)
	s.publishBroadcastEvent(EventPostCreated, created)

	doomed, err := s.store.CreatePost("eve", "temporary")
	require.NoError(t, err)
	s.publishBroadcastEvent(EventPostCreated, doomed)

	likes, err := s.store.LikePost(created.ID)
	require.NoError(t, err)
	s.publishBroadcastEvent(EventPostLiked, fiber.Map{"post_id": created.ID, "likes": likes})

	comment, err := s.store.AddComment(created.ID, "eve", "nice")
	require.NoError(t, err)
	s.publishBroadcastEvent(EventCommentAdded, fiber.Map{"post_id": created.ID, "comment": comment})

	require.NoError(t, s.store.DeletePost(doomed.ID))
	s.publishBroadcastEvent(EventPostDeleted, fiber.Map{"post_id": doomed.ID})

	mirror := map[string]models.Post{}
	for len(observer.Send) > 0 {
		raw := <-observer.Send

		var event struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &event))

		switch event.Type {
		case EventPostCreated:
			var post models.Post
			require.NoError(t, json.Unmarshal(event.Payload, &post))
			mirror[post.ID] = post
		case EventPostLiked:
			var p struct {
				PostID string `json:"post_id"`
				Likes  int    `json:"likes"`
			}
			require.NoError(t, json.Unmarshal(event.Payload, &p))
			post := mirror[p.PostID]
			post.LikeCount = p.Likes
			mirror[p.PostID] = post
		case EventCommentAdded:
			var p struct {
				PostID  string         `json:"post_id"`
				Comment models.Comment `json:"comment"`
			}
			require.NoError(t, json.Unmarshal(event.Payload, &p))
			post := mirror[p.PostID]
			post.Comments = append(post.Comments, p.Comment)
			mirror[p.PostID] = post
		case EventPostDeleted:
			var p struct {
				PostID string `json:"post_id"`
			}
			require.NoError(t, json.Unmarshal(event.Payload, &p))
			delete(mirror, p.PostID)
		}
	}

	posts := s.store.ListPosts()
	require.Len(t, mirror, len(posts))
	for _, want := range posts {
		got, ok := mirror[want.ID]
		require.True(t, ok, "mirror is missing post %s", want.ID)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		got.CreatedAt = want.CreatedAt
		for i := range got.Comments {
			assert.True(t, want.Comments[i].CreatedAt.Equal(got.Comments[i].CreatedAt))
			got.Comments[i].CreatedAt = want.Comments[i].CreatedAt
		}
		assert.Equal(t, want, got)
	}
}

func TestPresenceEventsBypassRedis(t *testing.T) {
	// No subscriber wiring: content events are queued in Redis, but presence
	// and typing still reach local connections directly.
	s := newMirroredServer(t)
	observer := registerObserver(t, s)

	s.publishPresenceEvent(EventPresenceCount, fiber.Map{"online": 1})
	eventType, _ := nextFrame(t, observer)
	assert.Equal(t, EventPresenceCount, eventType)

	origin := registerObserver(t, s)
	s.publishOthersEvent(origin, EventUserTyping, fiber.Map{"username": "alice"})
	eventType, _ = nextFrame(t, observer)
	assert.Equal(t, EventUserTyping, eventType)
	requireNoFrames(t, origin)
}
