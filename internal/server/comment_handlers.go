package server

import (
	"vibehunt/internal/models"
	"vibehunt/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, id)
	if err != nil {
		return respond(c, err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		Author   string `json:"author,omitempty"`
		DeviceID string `json:"device_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(ctx, service.AddCommentInput{
		PostID:   id,
		Content:  req.Content,
		Author:   req.Author,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
