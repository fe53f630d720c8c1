package events

import (
	"time"

	"github.com/spec-kit/form-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated EventType = "submission_created"
	EventSubmissionDeleted EventType = "submission_deleted"
	EventFileUploaded      EventType = "file_uploaded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	SubmissionID string      `json:"submission_id,omitempty"`
	Actor        Actor       `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// SubmissionCreatedPayload payload.
type SubmissionCreatedPayload struct {
	Email      string `json:"email"`
	Occupation string `json:"occupation"`
}

// SubmissionDeletedPayload payload.
type SubmissionDeletedPayload struct {
	AlreadyAbsent bool `json:"already_absent"`
}

// FileUploadedPayload payload.
type FileUploadedPayload struct {
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
}
