package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chirp/internal/blob"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/observability"
	"chirp/internal/repository"
	"chirp/internal/session"

	"go.opentelemetry.io/otel/attribute"
)

// TextMaxLen is the maximum post length in characters.
const TextMaxLen = 200

// PostService implements the post lifecycle: compose, edit, commit, delete.
type PostService struct {
	posts         repository.PostRepository
	blobs         blob.Store
	sessions      *sessionSet
	maxPhotoBytes int64
}

// NewPostService creates a new post service. maxPhotoBytes caps the size of
// a photo attached to a post edit or composition.
func NewPostService(posts repository.PostRepository, blobs blob.Store, maxPhotoBytes int64) *PostService {
	return &PostService{
		posts:         posts,
		blobs:         blobs,
		sessions:      newSessionSet(),
		maxPhotoBytes: maxPhotoBytes,
	}
}

func validateText(text string) *models.AppError {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("post text must not be empty")
	}
	if utf8.RuneCountInString(text) > TextMaxLen {
		return models.NewValidationError("post text exceeds 200 characters")
	}
	return nil
}

// CreatePost creates a new post authored by identity, optionally with a
// photo. The author's display name is denormalized onto the post at write
// time; later profile renames do not rewrite it.
func (s *PostService) CreatePost(ctx context.Context, identity *session.Identity, text string, photo *DraftPhoto) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()

	if err := validateText(text); err != nil {
		return nil, err
	}
	if photo != nil && int64(len(photo.Data)) >= s.maxPhotoBytes {
		return nil, models.NewValidationError("photo must be smaller than the maximum upload size")
	}

	post := &models.Post{
		AuthorID:   identity.ID,
		AuthorName: identity.Name(),
		Text:       strings.TrimSpace(text),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.String("post.id", post.ID))

	if photo != nil {
		// The photo legs run after the document exists; a failure here
		// leaves a photoless post rather than failing the whole compose.
		url, err := s.uploadPhoto(ctx, post.AuthorID, post.ID, photo)
		if err == nil {
			err = s.posts.UpdateFields(ctx, post.ID, map[string]any{"photo_url": url})
		}
		if err != nil {
			span.SetError(err)
			middleware.Logger.WarnContext(ctx, "post created without photo",
				slog.String("post_id", post.ID), slog.Any("error", err))
		} else {
			post.PhotoURL = url
		}
	}

	middleware.Logger.InfoContext(ctx, "post created", slog.String("post_id", post.ID))
	return post, nil
}

// BeginEdit opens an edit session on a post. Only the author may edit.
// Calling it while a session already exists returns that session.
func (s *PostService) BeginEdit(ctx context.Context, identity *session.Identity, postID string) (Snapshot, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return Snapshot{}, err
	}
	if post.AuthorID != identity.ID {
		return Snapshot{}, models.NewUnauthorizedError("only the author may edit this post")
	}

	if existing, ok := s.sessions.get(postID); ok {
		existing.mu.Lock()
		existing.editing = true
		existing.mu.Unlock()
		return existing.snapshot(), nil
	}

	sess := newEditSession(postID, identity.ID, post.Text)
	s.sessions.put(sess)
	return sess.snapshot(), nil
}

// UpdateDraftText replaces the session's draft text. An over-length draft is
// rejected and the previous draft kept.
func (s *PostService) UpdateDraftText(identity *session.Identity, postID, text string) (Snapshot, error) {
	sess, err := s.ownedSession(identity, postID)
	if err != nil {
		return Snapshot{}, err
	}
	if utf8.RuneCountInString(text) > TextMaxLen {
		return sess.snapshot(), models.NewValidationError("post text exceeds 200 characters")
	}

	sess.mu.Lock()
	if !sess.editing {
		sess.mu.Unlock()
		return sess.snapshot(), models.NewValidationError("post is not being edited")
	}
	sess.draftText = text
	sess.mu.Unlock()
	return sess.snapshot(), nil
}

// AttachPhoto stages a photo on the edit session. Oversize selections are
// rejected and the existing draft photo, if any, is kept.
func (s *PostService) AttachPhoto(identity *session.Identity, postID string, photo *DraftPhoto) (Snapshot, error) {
	sess, err := s.ownedSession(identity, postID)
	if err != nil {
		return Snapshot{}, err
	}
	if photo == nil || len(photo.Data) == 0 {
		return sess.snapshot(), models.NewValidationError("photo file is required")
	}
	if int64(len(photo.Data)) >= s.maxPhotoBytes {
		return sess.snapshot(), models.NewValidationError("photo must be smaller than the maximum upload size")
	}

	sess.mu.Lock()
	if !sess.editing {
		sess.mu.Unlock()
		return sess.snapshot(), models.NewValidationError("post is not being edited")
	}
	sess.draftPhoto = photo
	sess.mu.Unlock()
	return sess.snapshot(), nil
}

// CancelEdit discards the session and all draft state. Nothing is written.
func (s *PostService) CancelEdit(identity *session.Identity, postID string) error {
	if _, err := s.ownedSession(identity, postID); err != nil {
		return err
	}
	s.sessions.remove(postID)
	return nil
}

// Submit commits the draft. The steps run in order: text update, photo
// upload, photo URL update. There is no rollback; a failure after the first
// step yields a partial result and the photo leg is kept for Resume.
func (s *PostService) Submit(ctx context.Context, identity *session.Identity, postID string) (*CommitResult, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Submit")
	defer span.End()
	span.AddAttributes(attribute.String("post.id", postID))

	sess, err := s.ownedSession(identity, postID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if !sess.editing {
		sess.mu.Unlock()
		return s.recordCommit(ctx, ignored("post is not being edited")), nil
	}
	if sess.submitting {
		sess.mu.Unlock()
		return s.recordCommit(ctx, ignored("commit already in progress")), nil
	}
	text := sess.draftText
	photo := sess.draftPhoto
	if strings.TrimSpace(text) == "" {
		sess.mu.Unlock()
		return s.recordCommit(ctx, ignored("post text must not be empty")), nil
	}
	if utf8.RuneCountInString(text) > TextMaxLen {
		sess.mu.Unlock()
		return s.recordCommit(ctx, ignored("post text exceeds 200 characters")), nil
	}
	sess.submitting = true
	sess.mu.Unlock()

	result := &CommitResult{Status: StatusApplied}

	err = s.posts.UpdateFields(ctx, postID, map[string]any{"text": text})
	result.Steps = append(result.Steps, StepResult{Name: "update_text", Err: err})
	if err != nil {
		span.SetError(err)
		result.Status = StatusFailed
		sess.mu.Lock()
		sess.submitting = false
		sess.mu.Unlock()
		return s.recordCommit(ctx, result), nil
	}

	if photo != nil {
		result = s.commitPhoto(ctx, sess, photo, result)
		if result.Status == StatusPartial {
			span.SetError(result.Steps[len(result.Steps)-1].Err)
			return s.recordCommit(ctx, result), nil
		}
	}

	s.sessions.remove(postID)
	return s.recordCommit(ctx, result), nil
}

// Resume retries the photo leg of a previous partial commit.
func (s *PostService) Resume(ctx context.Context, identity *session.Identity, postID string) (*CommitResult, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Resume")
	defer span.End()
	span.AddAttributes(attribute.String("post.id", postID))

	sess, err := s.ownedSession(identity, postID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	photo := sess.pendingPhoto
	if photo == nil || sess.submitting {
		sess.mu.Unlock()
		return s.recordCommit(ctx, ignored("nothing to resume")), nil
	}
	sess.submitting = true
	sess.mu.Unlock()

	result := s.commitPhoto(ctx, sess, photo, &CommitResult{Status: StatusApplied})
	if result.Status == StatusPartial {
		span.SetError(result.Steps[len(result.Steps)-1].Err)
		return s.recordCommit(ctx, result), nil
	}

	s.sessions.remove(postID)
	return s.recordCommit(ctx, result), nil
}

// commitPhoto runs the upload and photo URL legs, updating session state for
// a later Resume when either fails.
func (s *PostService) commitPhoto(ctx context.Context, sess *EditSession, photo *DraftPhoto, result *CommitResult) *CommitResult {
	url, err := s.uploadPhoto(ctx, sess.authorID, sess.postID, photo)
	result.Steps = append(result.Steps, StepResult{Name: "upload_photo", Err: err})
	if err == nil {
		err = s.posts.UpdateFields(ctx, sess.postID, map[string]any{"photo_url": url})
		result.Steps = append(result.Steps, StepResult{Name: "update_photo_url", Err: err})
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.submitting = false
	if err != nil {
		result.Status = StatusPartial
		sess.editing = false
		sess.draftPhoto = nil
		sess.pendingPhoto = photo
		return result
	}
	sess.pendingPhoto = nil
	result.PhotoURL = url
	return result
}

func (s *PostService) uploadPhoto(ctx context.Context, authorID, postID string, photo *DraftPhoto) (string, error) {
	handle, err := s.blobs.Put(ctx, blob.PostPhotoPath(authorID, postID), photo.Data)
	if err != nil {
		return "", err
	}
	return s.blobs.URL(ctx, handle)
}

// Delete removes a post. It is a no-op unless confirmed, and only the author
// may delete. The document is removed first; the photo blob delete is
// best-effort and an orphaned blob does not resurrect the post.
func (s *PostService) Delete(ctx context.Context, identity *session.Identity, postID string, confirmed bool) (*DeleteResult, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Delete")
	defer span.End()
	span.AddAttributes(attribute.String("post.id", postID))

	if !confirmed {
		observability.DeleteOutcomes.WithLabelValues(string(StatusIgnored)).Inc()
		return &DeleteResult{Status: StatusIgnored, Reason: "delete not confirmed"}, nil
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != identity.ID {
		observability.DeleteOutcomes.WithLabelValues("unauthorized").Inc()
		return nil, models.NewUnauthorizedError("only the author may delete this post")
	}

	result := &DeleteResult{Status: StatusApplied}

	err = s.posts.Delete(ctx, postID)
	result.Steps = append(result.Steps, StepResult{Name: "delete_document", Err: err})
	if err != nil {
		span.SetError(err)
		result.Status = StatusFailed
		observability.DeleteOutcomes.WithLabelValues(string(result.Status)).Inc()
		return result, nil
	}

	if post.PhotoURL != "" {
		blobErr := s.blobs.Delete(ctx, blob.PostPhotoPath(post.AuthorID, postID))
		result.Steps = append(result.Steps, StepResult{Name: "delete_blob", Err: blobErr})
		if blobErr != nil {
			result.Status = StatusPartial
			middleware.Logger.WarnContext(ctx, "post photo blob left orphaned",
				slog.String("post_id", postID), slog.Any("error", blobErr))
		}
	}

	s.sessions.remove(postID)
	observability.DeleteOutcomes.WithLabelValues(string(result.Status)).Inc()
	middleware.Logger.InfoContext(ctx, "post deleted",
		slog.String("post_id", postID), slog.String("outcome", string(result.Status)))
	return result, nil
}

// Session returns the current edit session snapshot for a post, if any.
func (s *PostService) Session(identity *session.Identity, postID string) (Snapshot, error) {
	sess, err := s.ownedSession(identity, postID)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.snapshot(), nil
}

func (s *PostService) ownedSession(identity *session.Identity, postID string) (*EditSession, error) {
	sess, ok := s.sessions.get(postID)
	if !ok {
		return nil, models.NewNotFoundError("EditSession", postID)
	}
	if sess.authorID != identity.ID {
		return nil, models.NewUnauthorizedError("only the author may edit this post")
	}
	return sess, nil
}

func (s *PostService) recordCommit(ctx context.Context, result *CommitResult) *CommitResult {
	observability.CommitOutcomes.WithLabelValues(string(result.Status)).Inc()
	middleware.Logger.InfoContext(ctx, "edit commit",
		slog.String("outcome", string(result.Status)),
		slog.String("reason", result.Reason))
	return result
}
