package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.store.CreatePost(req.Author, req.Content)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	s.publishBroadcastEvent(EventPostCreated, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	return c.JSON(s.store.ListPosts())
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.store.GetPost(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(post)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID := c.Params("id")

	likes, err := s.store.LikePost(postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	s.publishBroadcastEvent(EventPostLiked, fiber.Map{
		"post_id": postID,
		"likes":   likes,
	})

	return c.JSON(fiber.Map{
		"post_id": postID,
		"likes":   likes,
	})
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID := c.Params("id")

	var req struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.store.AddComment(postID, req.Author, req.Content)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	s.publishBroadcastEvent(EventCommentAdded, fiber.Map{
		"post_id": postID,
		"comment": comment,
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID := c.Params("id")

	if err := s.store.DeletePost(postID); err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	s.publishBroadcastEvent(EventPostDeleted, fiber.Map{
		"post_id": postID,
	})

	return c.JSON(fiber.Map{
		"message": "Post deleted",
		"post_id": postID,
	})
}
