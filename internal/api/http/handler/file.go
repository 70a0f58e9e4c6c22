package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
	"github.com/mayank-anckr/express-kit/internal/service"
)

// maxUploadSize bounds in-memory avatar uploads.
const maxUploadSize = 10 << 20

// FileService defines avatar upload and download operations.
type FileService interface {
	UploadAvatar(ctx context.Context, key uuid.UUID, filename, contentType string, data []byte) (string, error)
	UploadAvatarBase64(ctx context.Context, key uuid.UUID, filename, contentType, encoded string) (string, error)
	DownloadAvatar(ctx context.Context, key uuid.UUID) (service.Download, error)
}

// File handles HTTP endpoints for avatar files.
type File struct {
	fileService    FileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewFile creates a new File handler.
func NewFile(fileService FileService, contextManager model.ContextManager, logger *logger.Logger) *File {
	return &File{fileService: fileService, contextManager: contextManager, logger: logger}
}

// Upload stores a multipart avatar for the authenticated account.
func (h *File) Upload(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipal(c.Request.Context())
	if !ok {
		handleError(c, model.NewUnauthorized("authorization required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		handleError(c, model.NewInvalidInput("file is required"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		handleError(c, model.NewInvalidInput("file is too large"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		handleError(c, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		handleError(c, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	objectKey, err := h.fileService.UploadAvatar(
		c.Request.Context(),
		principal.AccountKey,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.logger.Error("File handler: upload failed",
			"account_key", principal.AccountKey,
			"error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "File uploaded successfully", gin.H{"image": objectKey})
}

type uploadBase64Request struct {
	Image  string `json:"image"`
	Base64 string `json:"base64"`
}

// UploadBase64 stores a base64-encoded avatar for the authenticated account.
func (h *File) UploadBase64(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipal(c.Request.Context())
	if !ok {
		handleError(c, model.NewUnauthorized("authorization required"))
		return
	}

	var req uploadBase64Request
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}

	objectKey, err := h.fileService.UploadAvatarBase64(
		c.Request.Context(),
		principal.AccountKey,
		req.Image,
		"image/png",
		req.Base64,
	)
	if err != nil {
		h.logger.Error("File handler: base64 upload failed",
			"account_key", principal.AccountKey,
			"error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "File uploaded successfully", gin.H{"image": objectKey})
}

// Download streams the authenticated account's avatar.
func (h *File) Download(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipal(c.Request.Context())
	if !ok {
		handleError(c, model.NewUnauthorized("authorization required"))
		return
	}

	download, err := h.fileService.DownloadAvatar(c.Request.Context(), principal.AccountKey)
	if err != nil {
		h.logger.Error("File handler: download failed",
			"account_key", principal.AccountKey,
			"error", err.Error())
		handleError(c, err)
		return
	}
	defer download.Reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Name))
	c.DataFromReader(http.StatusOK, download.Size, download.ContentType, download.Reader, nil)
}
