package domain

import "time"

// StoredFile is a blob kept by the storage diagnostic panel.
type StoredFile struct {
	ID        string
	Key       string
	FileName  string
	MimeType  string
	SizeBytes int64
	Data      []byte
	CreatedAt time.Time
}

// FileRef is a lightweight pointer to a stored file.
type FileRef struct {
	Key       string
	FileName  string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}
