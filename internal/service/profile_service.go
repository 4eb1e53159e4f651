package service

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"strings"
	"sync"

	// Registered image formats for avatar validation.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"chirp/internal/blob"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/observability"
	"chirp/internal/session"
)

// ProfileService implements avatar and display name management.
type ProfileService struct {
	provider session.Provider
	blobs    blob.Store

	mu           sync.Mutex
	nameSessions map[string]string // identityID -> original name at edit start
}

// NewProfileService creates a new profile service.
func NewProfileService(provider session.Provider, blobs blob.Store) *ProfileService {
	return &ProfileService{
		provider:     provider,
		blobs:        blobs,
		nameSessions: make(map[string]string),
	}
}

// Get returns the identity's current profile.
func (s *ProfileService) Get(ctx context.Context, identityID string) (*session.Identity, error) {
	return s.provider.Lookup(ctx, identityID)
}

// SetAvatar replaces the identity's avatar and commits immediately: the blob
// is uploaded, its URL read back from the store, and the profile updated in
// one pass. Uploading again overwrites the previous avatar at the same path.
// Avatars carry no size cap; the payload must still decode as an image.
func (s *ProfileService) SetAvatar(ctx context.Context, identity *session.Identity, photo *DraftPhoto) (string, error) {
	span, ctx := observability.NewSpan(ctx, "ProfileService.SetAvatar")
	defer span.End()

	if photo == nil || len(photo.Data) == 0 {
		return "", models.NewValidationError("avatar file is required")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(photo.Data)); err != nil {
		return "", models.NewValidationError("avatar must be an image")
	}

	handle, err := s.blobs.Put(ctx, blob.AvatarPath(identity.ID), photo.Data)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	url, err := s.blobs.URL(ctx, handle)
	if err != nil {
		span.SetError(err)
		return "", err
	}

	if err := s.provider.UpdateProfile(ctx, identity.ID, session.ProfileChanges{AvatarURL: &url}); err != nil {
		span.SetError(err)
		return "", err
	}

	middleware.Logger.InfoContext(ctx, "avatar updated", slog.String("identity_id", identity.ID))
	return url, nil
}

// BeginNameEdit opens a display name edit, remembering the name at edit
// start. Re-entering is a no-op.
func (s *ProfileService) BeginNameEdit(identity *session.Identity) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if original, ok := s.nameSessions[identity.ID]; ok {
		return original
	}
	s.nameSessions[identity.ID] = identity.Name()
	return identity.Name()
}

// CancelNameEdit discards the name edit without writing.
func (s *ProfileService) CancelNameEdit(identity *session.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nameSessions, identity.ID)
}

// SubmitName commits a new display name. Blank submissions are rejected and
// the edit stays open so the user can try again.
func (s *ProfileService) SubmitName(ctx context.Context, identity *session.Identity, name string) error {
	s.mu.Lock()
	_, editing := s.nameSessions[identity.ID]
	s.mu.Unlock()
	if !editing {
		return models.NewValidationError("display name is not being edited")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("display name must not be empty")
	}

	if err := s.provider.UpdateProfile(ctx, identity.ID, session.ProfileChanges{DisplayName: &name}); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.nameSessions, identity.ID)
	s.mu.Unlock()

	middleware.Logger.InfoContext(ctx, "display name updated", slog.String("identity_id", identity.ID))
	return nil
}
