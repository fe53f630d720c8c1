package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/form-service/internal/api/dto"
	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/service"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

const defaultFilePrefix = "test-files/"

// FilesHandler exposes the storage diagnostic panel endpoints.
type FilesHandler struct {
	storage *service.StorageService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(storageService *service.StorageService) *FilesHandler {
	return &FilesHandler{storage: storageService}
}

// Upload POST /storage/files.
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}
	prefix := c.FormValue("prefix", defaultFilePrefix)

	src, err := header.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return apperrors.MapError(err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	ref, err := h.storage.Upload(c.Context(), prefix, header.Filename, mimeType, data)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.fileRefResponse(ref)})
}

// List GET /storage/files.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	prefix := c.Query("prefix", defaultFilePrefix)
	refs, err := h.storage.List(c.Context(), prefix)
	if err != nil {
		return err
	}
	items := make([]dto.FileRefResponse, 0, len(refs))
	for i := range refs {
		items = append(items, h.fileRefResponse(&refs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Serve GET /files/*. Resolves a ref to its bytes.
func (h *FilesHandler) Serve(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" {
		return apperrors.NewValidationError("file key required", nil)
	}
	file, err := h.storage.Get(c.Context(), key)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("file", map[string]any{"key": key})
		}
		return err
	}
	c.Set(fiber.HeaderContentType, file.MimeType)
	return c.Send(file.Data)
}

func (h *FilesHandler) fileRefResponse(ref *domain.FileRef) dto.FileRefResponse {
	return dto.FileRefResponse{
		Key:       ref.Key,
		FileName:  ref.FileName,
		MimeType:  ref.MimeType,
		SizeBytes: ref.SizeBytes,
		URL:       h.storage.URL(ref.Key),
		CreatedAt: ref.CreatedAt,
	}
}
