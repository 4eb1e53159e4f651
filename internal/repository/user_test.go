package repository

import (
	"context"
	"testing"

	"chirp/internal/models"
	"chirp/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{DisplayName: "Ada"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.DisplayName)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{DisplayName: "Ada", AvatarURL: "http://x/old"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateFields(ctx, user.ID, map[string]any{"display_name": "Grace"}))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.DisplayName)
	assert.Equal(t, "http://x/old", got.AvatarURL)
}

func TestUserRepository_CountsStoreCalls(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	counters := map[string]float64{}
	for _, op := range []string{"create", "get", "update"} {
		counters[op] = testutil.ToFloat64(observability.DocumentStoreCalls.WithLabelValues(op))
	}

	user := &models.User{DisplayName: "Ada"}
	require.NoError(t, repo.Create(ctx, user))
	_, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateFields(ctx, user.ID, map[string]any{"display_name": "Grace"}))

	for _, op := range []string{"create", "get", "update"} {
		got := testutil.ToFloat64(observability.DocumentStoreCalls.WithLabelValues(op))
		assert.Equal(t, counters[op]+1, got, "operation %q", op)
	}
}

func TestUserRepository_UpdateFields_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.UpdateFields(context.Background(), "missing", map[string]any{"display_name": "x"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
