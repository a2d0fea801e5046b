package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

func TestGetTrending(t *testing.T) {
	s, app := newTestServer(t)

	for _, content := range []string{"#go #redis", "more #go", "#fiber"} {
		_, err := s.store.CreatePost("alice", content)
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/trending", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tags []models.TrendingTag
	decodeBody(t, resp, &tags)
	require.Len(t, tags, 3)
	assert.Equal(t, models.TrendingTag{Tag: "#go", Count: 2}, tags[0])
}

func TestGetTrending_LimitParam(t *testing.T) {
	s, app := newTestServer(t)
	_, err := s.store.CreatePost("alice", "#a #b #c")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/trending?limit=2", nil))
	require.NoError(t, err)

	var tags []models.TrendingTag
	decodeBody(t, resp, &tags)
	assert.Len(t, tags, 2)
}

func TestGetStats(t *testing.T) {
	s, app := newTestServer(t)

	post, err := s.store.CreatePost("alice", "hello")
	require.NoError(t, err)
	_, err = s.store.LikePost(post.ID)
	require.NoError(t, err)
	_, err = s.store.AddComment(post.ID, "bob", "hi")
	require.NoError(t, err)

	_, err = s.registry.Claim("c1", "alice")
	require.NoError(t, err)
	_, err = s.registry.Claim("c2", "bob")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]float64
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(1), body["total_posts"])
	assert.Equal(t, float64(1), body["total_likes"])
	assert.Equal(t, float64(1), body["total_comments"])
	assert.Equal(t, float64(2), body["online_users"])
}

func TestHealthEndpoints(t *testing.T) {
	_, app := newTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestWebsocketRouteRequiresUpgrade(t *testing.T) {
	_, app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
