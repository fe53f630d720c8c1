package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/events"
	"github.com/spec-kit/form-service/internal/repository"
)

// StorageService backs the file-storage diagnostic panel: upload bytes under a
// key, list refs by prefix, resolve a key to a serving URL.
type StorageService struct {
	files      repository.FileRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStorageService constructs the service.
func NewStorageService(files repository.FileRepository, dispatcher events.Dispatcher, logger *zap.Logger) *StorageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageService{files: files, dispatcher: dispatcher, logger: logger}
}

// Upload stores bytes under prefix/filename and returns the ref.
func (s *StorageService) Upload(ctx context.Context, prefix, fileName, mimeType string, data []byte) (*domain.FileRef, error) {
	file := &domain.StoredFile{
		Key:       prefix + fileName,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Data:      data,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventFileUploaded,
			Timestamp: time.Now(),
			Payload:   events.FileUploadedPayload{Key: file.Key, SizeBytes: file.SizeBytes},
		})
	}

	ref := &domain.FileRef{
		Key:       file.Key,
		FileName:  file.FileName,
		MimeType:  file.MimeType,
		SizeBytes: file.SizeBytes,
		CreatedAt: file.CreatedAt,
	}
	return ref, nil
}

// List returns refs for every stored file under prefix.
func (s *StorageService) List(ctx context.Context, prefix string) ([]domain.FileRef, error) {
	return s.files.ListByPrefix(ctx, prefix)
}

// Get fetches the full blob for serving.
func (s *StorageService) Get(ctx context.Context, key string) (*domain.StoredFile, error) {
	return s.files.GetByKey(ctx, key)
}

// URL resolves a key to the path this service serves the bytes from.
func (s *StorageService) URL(key string) string {
	return "/files/" + key
}
