package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

// statsResponse extends the store aggregates with the live presence count.
type statsResponse struct {
	models.Stats
	OnlineUsers int `json:"online_users"`
}

// GetTrending handles GET /api/trending?limit=
func (s *Server) GetTrending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.config.TrendingLimit)
	return c.JSON(s.store.Trending(limit))
}

// GetStats handles GET /api/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	return c.JSON(statsResponse{
		Stats:       s.store.Stats(),
		OnlineUsers: s.registry.OnlineCount(),
	})
}
