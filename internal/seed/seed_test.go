package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshivakumar1/social-app-clone/internal/store"
)

func TestWelcomePosts(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	posts := WelcomePosts(now)
	require.Len(t, posts, 2)

	// Oldest first, so Preload leaves the welcome post at the feed head
	assert.True(t, posts[0].CreatedAt.Before(posts[1].CreatedAt))
	assert.Equal(t, "Social Team", posts[1].Author)
	require.Len(t, posts[1].Comments, 2)
	for _, c := range posts[1].Comments {
		assert.Equal(t, posts[1].ID, c.PostID)
	}
}

func TestWelcomePosts_PreloadOrder(t *testing.T) {
	now := time.Now().UTC()
	s := store.New()
	s.Preload(WelcomePosts(now))

	feed := s.ListPosts()
	require.Len(t, feed, 2)
	assert.Equal(t, "Social Team", feed[0].Author)
	assert.Equal(t, "DevOps Engineer", feed[1].Author)
}

func TestDemoPosts(t *testing.T) {
	now := time.Now().UTC()
	posts := DemoPosts(25, now)
	require.Len(t, posts, 25)

	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Author)
		assert.Contains(t, p.Content, "#")
		assert.False(t, p.CreatedAt.After(now))
		for _, c := range p.Comments {
			assert.Equal(t, p.ID, c.PostID)
		}
	}
}
