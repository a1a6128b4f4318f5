package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/storage"
	"github.com/gin-gonic/gin"
)

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error)
}

type UploadHandler struct {
	uploader Uploader
}

// NewUploadHandler accepts a nil uploader; uploads then answer 503.
func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("", auth, AdminOnly(), h.upload)
}

func (h *UploadHandler) upload(c *gin.Context) {
	if h.uploader == nil {
		respondError(c, fmt.Errorf("%w: uploads are not configured", domain.ErrUnavailable))
		return
	}

	// room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadSize+1<<20)
	header, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		badRequest(c, "file exceeds the 10 MiB limit")
		return
	}
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if header.Size > storage.MaxUploadSize {
		badRequest(c, "file exceeds the 10 MiB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		badRequest(c, "only image uploads are allowed")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
