package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

func postJSON(t *testing.T, body interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           map[string]string{"author": "alice", "content": "hello #go"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing author",
			body:           map[string]string{"content": "hello"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeValidation,
		},
		{
			name:           "Missing content",
			body:           map[string]string{"author": "alice"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, app := newTestServer(t)

			req := httptest.NewRequest(http.MethodPost, "/api/posts", postJSON(t, tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedCode != "" {
				var errResp models.ErrorResponse
				decodeBody(t, resp, &errResp)
				assert.Equal(t, tt.expectedCode, errResp.Code)
				return
			}

			var post models.Post
			decodeBody(t, resp, &post)
			assert.NotEmpty(t, post.ID)
			assert.Equal(t, "alice", post.Author)
			assert.Equal(t, 0, post.LikeCount)
		})
	}
}

func TestCreatePost_BroadcastsToAllConnections(t *testing.T) {
	s, app := newTestServer(t)
	observer := registerObserver(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/posts",
		postJSON(t, map[string]string{"author": "alice", "content": "hi"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	eventType, payload := nextFrame(t, observer)
	assert.Equal(t, EventPostCreated, eventType)
	assert.Equal(t, "alice", payload["author"])
	assert.Equal(t, "hi", payload["content"])
}

func TestGetPosts_NewestFirst(t *testing.T) {
	s, app := newTestServer(t)

	_, err := s.store.CreatePost("alice", "first")
	require.NoError(t, err)
	second, err := s.store.CreatePost("bob", "second")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
}

func TestGetPost(t *testing.T) {
	s, app := newTestServer(t)
	post, err := s.store.CreatePost("alice", "hello")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+post.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikePost(t *testing.T) {
	s, app := newTestServer(t)
	observer := registerObserver(t, s)

	post, err := s.store.CreatePost("alice", "hello")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/"+post.ID+"/like", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(1), body["likes"])

	eventType, payload := nextFrame(t, observer)
	assert.Equal(t, EventPostLiked, eventType)
	assert.Equal(t, post.ID, payload["post_id"])
	assert.Equal(t, float64(1), payload["likes"])
}

func TestLikePost_NotFound(t *testing.T) {
	s, app := newTestServer(t)
	observer := registerObserver(t, s)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/missing/like", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, models.CodeNotFound, errResp.Code)

	// Failed mutations publish nothing
	requireNoFrames(t, observer)
}

func TestCreateComment(t *testing.T) {
	s, app := newTestServer(t)
	observer := registerObserver(t, s)

	post, err := s.store.CreatePost("alice", "hello")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+post.ID+"/comments",
		postJSON(t, map[string]string{"author": "bob", "content": "nice"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "bob", comment.Author)

	eventType, payload := nextFrame(t, observer)
	assert.Equal(t, EventCommentAdded, eventType)
	assert.Equal(t, post.ID, payload["post_id"])
}

func TestCreateComment_Errors(t *testing.T) {
	s, app := newTestServer(t)
	post, err := s.store.CreatePost("alice", "hello")
	require.NoError(t, err)

	tests := []struct {
		name           string
		postID         string
		body           map[string]string
		expectedStatus int
	}{
		{"Unknown post", "missing", map[string]string{"author": "bob", "content": "x"}, http.StatusNotFound},
		{"Missing author", post.ID, map[string]string{"content": "x"}, http.StatusBadRequest},
		{"Missing content", post.ID, map[string]string{"author": "bob"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/posts/"+tt.postID+"/comments",
				postJSON(t, tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestDeletePost(t *testing.T) {
	s, app := newTestServer(t)
	observer := registerObserver(t, s)

	post, err := s.store.CreatePost("alice", "hello")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/"+post.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	eventType, payload := nextFrame(t, observer)
	assert.Equal(t, EventPostDeleted, eventType)
	assert.Equal(t, post.ID, payload["post_id"])

	// Deleting the same ID again is a 404, not a silent no-op
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/"+post.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	requireNoFrames(t, observer)
}
