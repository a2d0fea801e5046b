// Package store owns the in-memory collection of posts and comments. All
// mutations go through the Store's methods and are serialized by a single
// mutex, so no caller ever observes a partially-applied write.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

// Store is the process-wide content store. The zero value is not usable;
// construct with New.
type Store struct {
	mu sync.RWMutex

	// posts is kept head-first: the most recently inserted post is posts[0].
	posts []*models.Post
	byID  map[string]*models.Post

	now   func() time.Time
	newID func() string
}

// Option customizes a Store. Used by tests to pin clocks and IDs.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the ID source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		byID:  make(map[string]*models.Post),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preload inserts already-built posts at process start, oldest first. It is
// intended for seeding only; runtime writes must use CreatePost.
func (s *Store) Preload(posts []models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range posts {
		p := posts[i].Clone()
		if p.ID == "" {
			p.ID = s.newID()
		}
		s.posts = append([]*models.Post{&p}, s.posts...)
		s.byID[p.ID] = &p
	}
}

// CreatePost validates and inserts a new post at the logical head.
func (s *Store) CreatePost(author, content string) (models.Post, error) {
	if author == "" || content == "" {
		return models.Post{}, models.NewValidationError("Content and author are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.Post{
		ID:        s.newID(),
		Author:    author,
		Content:   content,
		LikeCount: 0,
		Comments:  []models.Comment{},
		CreatedAt: s.now(),
	}
	s.posts = append([]*models.Post{post}, s.posts...)
	s.byID[post.ID] = post

	return post.Clone(), nil
}

// LikePost increments the post's like count by exactly one and returns the
// new count. There is no unlike and no upper bound.
func (s *Store) LikePost(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.byID[id]
	if !ok {
		return 0, models.NewNotFoundError("Post", id)
	}
	post.LikeCount++
	return post.LikeCount, nil
}

// AddComment appends a new comment to the post. Comment order is arrival order.
func (s *Store) AddComment(postID, author, content string) (models.Comment, error) {
	if author == "" || content == "" {
		return models.Comment{}, models.NewValidationError("Content and author are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.byID[postID]
	if !ok {
		return models.Comment{}, models.NewNotFoundError("Post", postID)
	}

	comment := models.Comment{
		ID:        s.newID(),
		PostID:    postID,
		Author:    author,
		Content:   content,
		CreatedAt: s.now(),
	}
	post.Comments = append(post.Comments, comment)
	return comment, nil
}

// DeletePost removes the post and all its comments atomically. Deleting a
// missing (or already-deleted) ID fails with a not-found error.
func (s *Store) DeletePost(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return models.NewNotFoundError("Post", id)
	}
	delete(s.byID, id)
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			break
		}
	}
	return nil
}

// GetPost returns a copy of a single post.
func (s *Store) GetPost(id string) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.byID[id]
	if !ok {
		return models.Post{}, models.NewNotFoundError("Post", id)
	}
	return post.Clone(), nil
}

// ListPosts returns copies of all posts ordered newest-first by creation
// time. Posts with equal timestamps keep insertion order, newest insertion
// first, so a freshly created post is always listed first.
func (s *Store) ListPosts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// snapshotLocked copies the head-first slice in listing order. The slice is
// maintained head-first on insert, and creation timestamps only move forward,
// so a stable sort by CreatedAt preserves insertion order for ties.
func (s *Store) snapshotLocked() []models.Post {
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Clone())
	}
	sortPostsNewestFirst(out)
	return out
}

// Len returns the number of live posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
