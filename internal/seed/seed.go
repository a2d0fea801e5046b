// Package seed provides the demo data loaded into the content store at
// process start. Seeding is development convenience only; the store is
// equally valid starting empty.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

// WelcomePosts returns the fixed posts every fresh instance starts with,
// oldest first (Preload inserts in order, so the welcome post ends up at the
// head of the feed).
func WelcomePosts(now time.Time) []models.Post {
	deployPostID := uuid.NewString()
	welcomePostID := uuid.NewString()

	return []models.Post{
		{
			ID:        deployPostID,
			Author:    "DevOps Engineer",
			Content:   "Just deployed our app to AWS! The cloud is amazing ☁️",
			LikeCount: 28,
			Comments:  []models.Comment{},
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        welcomePostID,
			Author:    "Social Team",
			Content:   "Welcome to our amazing social media platform! 🎉",
			LikeCount: 42,
			Comments: []models.Comment{
				{
					ID:        uuid.NewString(),
					PostID:    welcomePostID,
					Author:    "John Doe",
					Content:   "This is awesome!",
					CreatedAt: now.Add(-30 * time.Minute),
				},
				{
					ID:        uuid.NewString(),
					PostID:    welcomePostID,
					Author:    "Jane Smith",
					Content:   "Love the design! 💖",
					CreatedAt: now.Add(-15 * time.Minute),
				},
			},
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}
}

// DemoPosts generates n extra posts with hashtags for development feeds.
func DemoPosts(n int, now time.Time) []models.Post {
	gofakeit.Seed(now.UnixNano())
	r := rand.New(rand.NewSource(now.UnixNano()))

	tags := []string{"#golang", "#devops", "#cloud", "#coffee", "#social"}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		postID := uuid.NewString()
		content := fmt.Sprintf("%s %s", gofakeit.Sentence(8), tags[r.Intn(len(tags))])

		post := models.Post{
			ID:        postID,
			Author:    gofakeit.Name(),
			Content:   content,
			LikeCount: r.Intn(50),
			Comments:  []models.Comment{},
			CreatedAt: now.Add(-time.Duration(r.Intn(72)) * time.Hour),
		}
		for c := 0; c < r.Intn(3); c++ {
			post.Comments = append(post.Comments, models.Comment{
				ID:        uuid.NewString(),
				PostID:    postID,
				Author:    gofakeit.Name(),
				Content:   gofakeit.Sentence(6),
				CreatedAt: post.CreatedAt.Add(time.Duration(c+1) * time.Minute),
			})
		}
		posts = append(posts, post)
	}
	return posts
}
