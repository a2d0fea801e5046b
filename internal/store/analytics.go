package store

import (
	"regexp"
	"sort"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

// hashtagPattern matches a '#' followed by one or more word characters.
// Matching is case-sensitive; "#Go" and "#go" are distinct tags.
var hashtagPattern = regexp.MustCompile(`#\w+`)

// Trending scans all live posts for hashtag tokens and returns per-tag counts
// sorted descending, ties broken by first-seen order (posts are scanned in
// listing order). The result is truncated to limit; limit <= 0 returns all.
func (s *Store) Trending(limit int) []models.TrendingTag {
	s.mu.RLock()
	posts := s.snapshotLocked()
	s.mu.RUnlock()

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, post := range posts {
		for _, tag := range hashtagPattern.FindAllString(post.Content, -1) {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	trending := make([]models.TrendingTag, 0, len(order))
	for _, tag := range order {
		trending = append(trending, models.TrendingTag{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})

	if limit > 0 && len(trending) > limit {
		trending = trending[:limit]
	}
	return trending
}

// Stats aggregates the current store state as of one consistent snapshot.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{TotalPosts: len(s.posts)}
	for _, p := range s.posts {
		stats.TotalLikes += p.LikeCount
		stats.TotalComments += len(p.Comments)
	}
	return stats
}

// sortPostsNewestFirst orders posts by creation time descending. The sort is
// stable so callers control tie-break order through input order.
func sortPostsNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
