package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, size, body)
	return args.String(0), args.Error(1)
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer admin-token")
	router.ServeHTTP(w, req)
	return w
}

func newUploadRouter(uploader Uploader) *gin.Engine {
	router := gin.New()
	NewUploadHandler(uploader).Register(router.Group("/api/uploads"), Authenticate(testVerifier))
	return router
}

func TestUploadHandler_Image(t *testing.T) {
	uploader := &MockUploader{}
	router := newUploadRouter(uploader)

	uploader.On("Upload", mock.Anything, "beach.png", "image/png", int64(4), mock.Anything).
		Return("https://cdn.example.com/uploads/x.png", nil)

	body, ct := multipartBody(t, "beach.png", "image/png", []byte("\x89PNG"))
	w := upload(router, body, ct)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"url":"https://cdn.example.com/uploads/x.png"}`, w.Body.String())
}

func TestUploadHandler_RejectsNonImage(t *testing.T) {
	uploader := &MockUploader{}
	router := newUploadRouter(uploader)

	body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
	w := upload(router, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandler_NotConfigured(t *testing.T) {
	router := newUploadRouter(nil)

	body, ct := multipartBody(t, "beach.png", "image/png", []byte("\x89PNG"))
	w := upload(router, body, ct)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
