package server

import (
	"io"

	"chirp/internal/models"
	"chirp/internal/service"
	"chirp/internal/session"

	"github.com/gofiber/fiber/v2"
)

// currentIdentity resolves the authenticated identity from the request. A
// profile row is provisioned on first sight of a new identity ID, mirroring
// how the upstream auth provider owns account creation.
func (s *Server) currentIdentity(c *fiber.Ctx) (*session.Identity, error) {
	id, ok := c.Locals("identityID").(string)
	if !ok || id == "" {
		return nil, models.NewUnauthorizedError("authentication required")
	}

	identity, err := s.provider.Lookup(c.Context(), id)
	if err == nil {
		return identity, nil
	}
	if appErr, ok := err.(*models.AppError); !ok || appErr.Code != "NOT_FOUND" {
		return nil, err
	}

	if err := s.userRepo.Create(c.Context(), &models.User{ID: id}); err != nil {
		return nil, err
	}
	return &session.Identity{ID: id}, nil
}

// photoFromForm reads exactly one uploaded file from the named multipart
// field. More than one file is rejected rather than silently taking the first.
func photoFromForm(c *fiber.Ctx, field string) (*service.DraftPhoto, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, models.NewValidationError("multipart form upload required")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, models.NewValidationError("a " + field + " file is required")
	}
	if len(files) > 1 {
		return nil, models.NewValidationError("exactly one " + field + " file is allowed")
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, models.NewValidationError("could not read uploaded " + field)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewValidationError("could not read uploaded " + field)
	}
	return &service.DraftPhoto{Filename: files[0].Filename, Data: data}, nil
}

// respondError maps application error codes onto HTTP statuses. Guard
// rejections surface as 422 so clients can distinguish them from malformed
// requests.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			status = fiber.StatusUnprocessableEntity
		case "UNAUTHORIZED":
			status = fiber.StatusForbidden
		case "NOT_FOUND":
			status = fiber.StatusNotFound
		}
	}
	return models.RespondWithError(c, status, err)
}

// commitStatusCode picks the response status for a typed commit result.
// Ignored commits are 422; a partial commit still reports 200 because the
// applied steps are real and the result body carries the retry handle.
func commitStatusCode(status service.CommitStatus) int {
	switch status {
	case service.StatusIgnored:
		return fiber.StatusUnprocessableEntity
	case service.StatusFailed:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusOK
	}
}
