package service

import (
	"context"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/repository"
)

// TimelinePageSize is the fixed number of posts a timeline query returns.
const TimelinePageSize = 25

// TimelineService reads an author's recent posts, newest first. Post author
// names are the snapshot taken when each post was written; a later rename
// does not rewrite history.
type TimelineService struct {
	posts repository.PostRepository
}

// NewTimelineService creates a new timeline service.
func NewTimelineService(posts repository.PostRepository) *TimelineService {
	return &TimelineService{posts: posts}
}

// ByAuthor returns up to TimelinePageSize posts by authorID, newest first.
// Editable is computed against the viewer, never cached.
func (s *TimelineService) ByAuthor(ctx context.Context, viewerID, authorID string) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.TimelineKey(authorID), &posts, cache.TimelineTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.posts.GetByAuthor(ctx, authorID, TimelinePageSize)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		p.Editable = p.AuthorID == viewerID
	}
	return posts, nil
}
