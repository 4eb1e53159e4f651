package session

import (
	"context"
	"testing"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	createFn       func(ctx context.Context, user *models.User) error
	getByIDFn      func(ctx context.Context, id string) (*models.User, error)
	updateFieldsFn func(ctx context.Context, id string, fields map[string]any) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return s.updateFieldsFn(ctx, id, fields)
}

func TestIdentity_Name(t *testing.T) {
	assert.Equal(t, "Ada", Identity{DisplayName: "Ada"}.Name())
	assert.Equal(t, models.DefaultDisplayName, Identity{}.Name())
}

func TestProvider_Lookup(t *testing.T) {
	provider := NewProvider(&stubUserRepo{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			require.Equal(t, "u1", id)
			return &models.User{ID: "u1", DisplayName: "Ada", AvatarURL: "http://x/a"}, nil
		},
	})

	identity, err := provider.Lookup(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "Ada", identity.DisplayName)
	assert.Equal(t, "http://x/a", identity.AvatarURL)
}

func TestProvider_UpdateProfile(t *testing.T) {
	name := "Grace"
	avatar := "http://x/new"

	tests := []struct {
		name    string
		changes ProfileChanges
		want    map[string]any
	}{
		{
			name:    "name only",
			changes: ProfileChanges{DisplayName: &name},
			want:    map[string]any{"display_name": "Grace"},
		},
		{
			name:    "avatar only",
			changes: ProfileChanges{AvatarURL: &avatar},
			want:    map[string]any{"avatar_url": "http://x/new"},
		},
		{
			name:    "both",
			changes: ProfileChanges{DisplayName: &name, AvatarURL: &avatar},
			want:    map[string]any{"display_name": "Grace", "avatar_url": "http://x/new"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			provider := NewProvider(&stubUserRepo{
				updateFieldsFn: func(_ context.Context, id string, fields map[string]any) error {
					require.Equal(t, "u1", id)
					got = fields
					return nil
				},
			})
			require.NoError(t, provider.UpdateProfile(context.Background(), "u1", tt.changes))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvider_UpdateProfile_Empty(t *testing.T) {
	provider := NewProvider(&stubUserRepo{
		updateFieldsFn: func(_ context.Context, _ string, _ map[string]any) error {
			t.Fatal("no update expected for empty changes")
			return nil
		},
	})
	require.NoError(t, provider.UpdateProfile(context.Background(), "u1", ProfileChanges{}))
}
