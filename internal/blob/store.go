// Package blob provides path-addressed binary object storage.
package blob

import (
	"context"
	"fmt"
)

// Handle identifies a stored object.
type Handle struct {
	Path string
	Size int64
}

// Store is a path-addressed blob store. Paths are caller-chosen; writing to
// an existing path silently overwrites the previous object.
type Store interface {
	Put(ctx context.Context, path string, data []byte) (*Handle, error)
	URL(ctx context.Context, h *Handle) (string, error)
	Delete(ctx context.Context, path string) error
}

// PostPhotoPath returns the canonical blob path for a post photo.
func PostPhotoPath(authorID, postID string) string {
	return fmt.Sprintf("tweets/%s/%s", authorID, postID)
}

// AvatarPath returns the canonical blob path for an identity's avatar.
func AvatarPath(identityID string) string {
	return "avatars/" + identityID
}
