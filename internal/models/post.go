// Package models contains data structures for the application's domain models.
package models

import "time"

// Post represents a shared content item with likes and comments.
// IDs are opaque UUIDs assigned at creation and never reused, even after deletion.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	LikeCount int       `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"timestamp"`
}

// Comment is a reply attached to exactly one post, ordered by arrival.
// A comment never outlives its post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// TrendingTag is one hashtag with its occurrence count across all live posts.
type TrendingTag struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats aggregates the current store state.
type Stats struct {
	TotalPosts    int `json:"total_posts"`
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`
}

// Clone returns a deep copy of the post so callers cannot mutate store state
// through the returned value.
func (p Post) Clone() Post {
	out := p
	if p.Comments != nil {
		out.Comments = make([]Comment, len(p.Comments))
		copy(out.Comments, p.Comments)
	} else {
		out.Comments = []Comment{}
	}
	return out
}
