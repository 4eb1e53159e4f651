// Package session resolves the acting identity for a request and applies
// profile changes back to it. Callers receive an explicit Identity value
// rather than reaching into ambient globals.
package session

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/repository"
)

// Identity is a snapshot of the signed-in principal at the time it was
// resolved. It does not update itself; re-resolve after a profile change.
type Identity struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// Name returns the display name, falling back to the default when unset.
func (i Identity) Name() string {
	if i.DisplayName == "" {
		return models.DefaultDisplayName
	}
	return i.DisplayName
}

// ProfileChanges is a partial profile update. Nil fields are left untouched.
type ProfileChanges struct {
	DisplayName *string
	AvatarURL   *string
}

// Provider resolves identities and persists profile changes.
type Provider interface {
	Lookup(ctx context.Context, identityID string) (*Identity, error)
	UpdateProfile(ctx context.Context, identityID string, changes ProfileChanges) error
}

type userProvider struct {
	users repository.UserRepository
}

// NewProvider returns a Provider backed by the user repository.
func NewProvider(users repository.UserRepository) Provider {
	return &userProvider{users: users}
}

func (p *userProvider) Lookup(ctx context.Context, identityID string) (*Identity, error) {
	user, err := p.users.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return &Identity{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}, nil
}

func (p *userProvider) UpdateProfile(ctx context.Context, identityID string, changes ProfileChanges) error {
	fields := map[string]any{}
	if changes.DisplayName != nil {
		fields["display_name"] = *changes.DisplayName
	}
	if changes.AvatarURL != nil {
		fields["avatar_url"] = *changes.AvatarURL
	}
	if len(fields) == 0 {
		return nil
	}
	return p.users.UpdateFields(ctx, identityID, fields)
}
