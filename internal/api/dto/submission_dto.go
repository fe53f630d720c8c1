package dto

import "time"

// SubmissionResponse is the wire shape of a persisted record.
type SubmissionResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    *string   `json:"last_name,omitempty"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Age         int       `json:"age"`
	Occupation  string    `json:"occupation"`
	Address     string    `json:"address,omitempty"`
	SubmitterID string    `json:"submitter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeleteSubmissionResponse reports the outcome of a moderation delete.
type DeleteSubmissionResponse struct {
	ID            string `json:"id"`
	Deleted       bool   `json:"deleted"`
	AlreadyAbsent bool   `json:"already_absent"`
}
