package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8480/media/")
	require.NoError(t, err)
	return store
}

func TestDiskStore_PutAndURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	h, err := store.Put(ctx, PostPhotoPath("u1", "p1"), []byte("photo-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "tweets/u1/p1", h.Path)
	assert.Equal(t, int64(len("photo-bytes")), h.Size)

	url, err := store.URL(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8480/media/tweets/u1/p1", url)

	data, err := os.ReadFile(filepath.Join(store.root, "tweets", "u1", "p1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("photo-bytes"), data)
}

func TestDiskStore_PutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	path := AvatarPath("u1")

	_, err := store.Put(ctx, path, []byte("old"))
	require.NoError(t, err)
	h, err := store.Put(ctx, path, []byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.root, "avatars", "u1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
	assert.Equal(t, int64(3), h.Size)
}

func TestDiskStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	path := PostPhotoPath("u1", "p1")

	_, err := store.Put(ctx, path, []byte("x"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, path))

	_, err = os.Stat(filepath.Join(store.root, "tweets", "u1", "p1"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(ctx, path))
}

func TestDiskStore_RejectsEscapingPaths(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"", "/etc/passwd", "../outside", "a/../../outside"} {
		_, err := store.Put(ctx, path, []byte("x"))
		assert.Error(t, err, "path %q should be rejected", path)
	}
}

func TestPathConventions(t *testing.T) {
	assert.Equal(t, "tweets/u1/p1", PostPhotoPath("u1", "p1"))
	assert.Equal(t, "avatars/u1", AvatarPath("u1"))
}
