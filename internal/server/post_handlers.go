package server

import (
	"vibehunt/internal/models"
	"vibehunt/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?range=...&sort=...
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rng := c.Query("range", service.RangeAll)
	sort := c.Query("sort", service.SortVotes)

	posts, err := s.postService.ListPosts(ctx, rng, sort)
	if err != nil {
		return respond(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Title   string `json:"title"`
		Tagline string `json:"tagline"`
		Maker   string `json:"maker,omitempty"`
		URL     string `json:"url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		Title:   req.Title,
		Tagline: req.Tagline,
		Maker:   req.Maker,
		URL:     req.URL,
	})
	if err != nil {
		return respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return respond(c, err)
	}

	return c.JSON(post)
}

// ToggleVote handles POST /api/posts/:id/vote
func (s *Server) ToggleVote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		DeviceID string `json:"device_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.postService.ToggleVote(ctx, id, req.DeviceID)
	if err != nil {
		return respond(c, err)
	}

	return c.JSON(result)
}
