package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/form-service/internal/domain"
)

// FileRepository persists blobs for the storage diagnostic panel.
type FileRepository interface {
	Create(ctx context.Context, file *domain.StoredFile) error
	GetByKey(ctx context.Context, key string) (*domain.StoredFile, error)
	ListByPrefix(ctx context.Context, prefix string) ([]domain.FileRef, error)
}

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository instantiates repository.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

// Create upserts by key so re-uploading a file overwrites the previous bytes,
// matching object-store semantics.
func (r *fileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	const query = `
        INSERT INTO stored_files (key, file_name, mime_type, size_bytes, data)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (key) DO UPDATE
            SET file_name=EXCLUDED.file_name, mime_type=EXCLUDED.mime_type,
                size_bytes=EXCLUDED.size_bytes, data=EXCLUDED.data, created_at=NOW()
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		file.Key,
		file.FileName,
		file.MimeType,
		file.SizeBytes,
		file.Data,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *fileRepository) GetByKey(ctx context.Context, key string) (*domain.StoredFile, error) {
	const query = `
        SELECT id, key, file_name, mime_type, size_bytes, data, created_at
        FROM stored_files WHERE key=$1`
	var file domain.StoredFile
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&file.ID,
		&file.Key,
		&file.FileName,
		&file.MimeType,
		&file.SizeBytes,
		&file.Data,
		&file.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListByPrefix(ctx context.Context, prefix string) ([]domain.FileRef, error) {
	const query = `
        SELECT key, file_name, mime_type, size_bytes, created_at
        FROM stored_files WHERE key LIKE $1 || '%' ORDER BY key`
	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.FileRef
	for rows.Next() {
		var ref domain.FileRef
		if err := rows.Scan(&ref.Key, &ref.FileName, &ref.MimeType, &ref.SizeBytes, &ref.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
