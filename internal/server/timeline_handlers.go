package server

import (
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTimeline handles GET /api/users/:id/timeline. It returns the author's
// most recent posts, newest first, with each post's snapshotted author name.
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.timelineService.ByAuthor(c.UserContext(), identity.ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(posts)
}
