package service

import (
	"context"
	"testing"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline_ByAuthor(t *testing.T) {
	repo := &stubPostRepo{
		getByAuthorFn: func(_ context.Context, authorID string, limit int) ([]*models.Post, error) {
			assert.Equal(t, "u1", authorID)
			assert.Equal(t, TimelinePageSize, limit)
			return []*models.Post{
				{ID: "p2", AuthorID: "u1", AuthorName: "Ada", Text: "newer"},
				{ID: "p1", AuthorID: "u1", AuthorName: "Ada", Text: "older"},
			}, nil
		},
	}
	svc := NewTimelineService(repo)

	posts, err := svc.ByAuthor(context.Background(), "u1", "u1")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.True(t, p.Editable, "the author sees their posts as editable")
	}
}

func TestTimeline_NotEditableForOtherViewers(t *testing.T) {
	repo := &stubPostRepo{
		getByAuthorFn: func(_ context.Context, _ string, _ int) ([]*models.Post, error) {
			return []*models.Post{{ID: "p1", AuthorID: "u1", AuthorName: "Ada", Text: "x"}}, nil
		},
	}
	svc := NewTimelineService(repo)

	posts, err := svc.ByAuthor(context.Background(), "u2", "u1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].Editable)
}

func TestTimeline_KeepsNameSnapshot(t *testing.T) {
	// The timeline surfaces whatever AuthorName was written with the post;
	// it never joins against the current profile.
	repo := &stubPostRepo{
		getByAuthorFn: func(_ context.Context, _ string, _ int) ([]*models.Post, error) {
			return []*models.Post{{ID: "p1", AuthorID: "u1", AuthorName: "Old Name", Text: "x"}}, nil
		},
	}
	svc := NewTimelineService(repo)

	posts, err := svc.ByAuthor(context.Background(), "u1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Old Name", posts[0].AuthorName)
}
