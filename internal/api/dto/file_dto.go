package dto

import "time"

// FileRefResponse points at a stored file and where to fetch it.
type FileRefResponse struct {
	Key       string    `json:"key"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
