package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGetMyProfileHandler(t *testing.T) {
	userRepo := new(MockUserRepository)
	expectIdentity(userRepo, "u1", "Ada")
	_, app := newTestServer(new(MockPostRepository), userRepo, newMemBlobStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "Ada", body["display_name"])
}

func TestUpdateAvatarHandler(t *testing.T) {
	userRepo := new(MockUserRepository)
	expectIdentity(userRepo, "u1", "Ada")
	userRepo.On("UpdateFields", mock.Anything, "u1",
		map[string]any{"avatar_url": "http://media/avatars/u1"}).Return(nil)
	blobs := newMemBlobStore()
	_, app := newTestServer(new(MockPostRepository), userRepo, blobs)

	resp, err := app.Test(multipartRequest(t, http.MethodPut, "/api/profile/avatar", "avatar", testPNG(t)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "http://media/avatars/u1", body["avatar_url"])
	assert.Contains(t, blobs.objects, "avatars/u1")
	userRepo.AssertExpectations(t)
}

func TestUpdateAvatarHandler_RejectsNonImage(t *testing.T) {
	userRepo := new(MockUserRepository)
	expectIdentity(userRepo, "u1", "Ada")
	_, app := newTestServer(new(MockPostRepository), userRepo, newMemBlobStore())

	resp, err := app.Test(multipartRequest(t, http.MethodPut, "/api/profile/avatar", "avatar", []byte("plain text")))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	userRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestNameEditFlowHandler(t *testing.T) {
	userRepo := new(MockUserRepository)
	expectIdentity(userRepo, "u1", "Ada")
	userRepo.On("UpdateFields", mock.Anything, "u1",
		map[string]any{"display_name": "Grace"}).Return(nil)
	_, app := newTestServer(new(MockPostRepository), userRepo, newMemBlobStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/profile/name/edit", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var begin map[string]any
	decodeBody(t, resp, &begin)
	assert.Equal(t, "Ada", begin["display_name"])

	resp, err = app.Test(jsonRequest(http.MethodPut, "/api/profile/name", map[string]string{"display_name": "Grace"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	userRepo.AssertExpectations(t)
}

func TestSubmitNameHandler_BlankRejected(t *testing.T) {
	userRepo := new(MockUserRepository)
	expectIdentity(userRepo, "u1", "Ada")
	_, app := newTestServer(new(MockPostRepository), userRepo, newMemBlobStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/profile/name/edit", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodPut, "/api/profile/name", map[string]string{"display_name": "  "}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	userRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitNameHandler_WithoutBeginRejected(t *testing.T) {
	userRepo := new(MockUserRepository)
	expectIdentity(userRepo, "u1", "Ada")
	_, app := newTestServer(new(MockPostRepository), userRepo, newMemBlobStore())

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/profile/name", map[string]string{"display_name": "Grace"}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
