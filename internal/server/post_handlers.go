package server

import (
	"strings"

	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The body is either JSON with a text
// field or a multipart form carrying text plus an optional photo file.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var text string
	var photo *service.DraftPhoto

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		text = c.FormValue("text")
		if form, formErr := c.MultipartForm(); formErr == nil && len(form.File["photo"]) > 0 {
			photo, err = photoFromForm(c, "photo")
			if err != nil {
				return respondError(c, err)
			}
		}
	} else {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		text = req.Text
	}

	post, err := s.postService.CreatePost(c.UserContext(), identity, text, photo)
	if err != nil {
		return respondError(c, err)
	}
	post.Editable = true
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	post.Editable = post.AuthorID == identity.ID
	return c.JSON(post)
}

// BeginEdit handles POST /api/posts/:id/edit
func (s *Server) BeginEdit(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	snap, err := s.postService.BeginEdit(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

// GetEditSession handles GET /api/posts/:id/edit
func (s *Server) GetEditSession(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	snap, err := s.postService.Session(identity, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

// UpdateDraftText handles PUT /api/posts/:id/edit/text
func (s *Server) UpdateDraftText(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	snap, err := s.postService.UpdateDraftText(identity, c.Params("id"), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

// AttachPhoto handles PUT /api/posts/:id/edit/photo
func (s *Server) AttachPhoto(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	photo, err := photoFromForm(c, "photo")
	if err != nil {
		return respondError(c, err)
	}

	snap, err := s.postService.AttachPhoto(identity, c.Params("id"), photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

// CancelEdit handles DELETE /api/posts/:id/edit
func (s *Server) CancelEdit(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.postService.CancelEdit(identity, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitEdit handles POST /api/posts/:id/edit/submit
func (s *Server) SubmitEdit(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := s.postService.Submit(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(commitStatusCode(result.Status)).JSON(result)
}

// ResumeEdit handles POST /api/posts/:id/edit/resume
func (s *Server) ResumeEdit(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := s.postService.Resume(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(commitStatusCode(result.Status)).JSON(result)
}

// DeletePost handles DELETE /api/posts/:id. The confirm query parameter is
// the explicit confirmation gate; without it the delete is ignored.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	identity, err := s.currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	confirmed := c.QueryBool("confirm", false)
	result, err := s.postService.Delete(c.UserContext(), identity, c.Params("id"), confirmed)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(commitStatusCode(result.Status)).JSON(result)
}
