package server

import (
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":           identity.ID,
		"display_name": identity.Name(),
		"avatar_url":   identity.AvatarURL,
	})
}

// UpdateAvatar handles PUT /api/profile/avatar. The new avatar commits
// immediately; there is no draft stage for profile photos.
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	photo, err := photoFromForm(c, "avatar")
	if err != nil {
		return respondError(c, err)
	}

	url, err := s.profileService.SetAvatar(c.UserContext(), identity, photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"avatar_url": url})
}

// BeginNameEdit handles POST /api/profile/name/edit
func (s *Server) BeginNameEdit(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	original := s.profileService.BeginNameEdit(identity)
	return c.JSON(fiber.Map{"editing": true, "display_name": original})
}

// CancelNameEdit handles DELETE /api/profile/name/edit
func (s *Server) CancelNameEdit(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	s.profileService.CancelNameEdit(identity)
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitName handles PUT /api/profile/name
func (s *Server) SubmitName(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.profileService.SubmitName(c.UserContext(), identity, req.DisplayName); err != nil {
		return respondError(c, err)
	}

	updated, err := s.provider.Lookup(c.UserContext(), identity.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"display_name": updated.Name()})
}
