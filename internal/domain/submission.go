package domain

import "time"

// Submission is the persisted form record. It is created once at submit time
// and never mutated afterwards; only an admin may delete it.
type Submission struct {
	ID          string
	FirstName   string
	LastName    *string
	Email       string
	Phone       string
	Age         int
	Occupation  string
	Address     string
	SubmitterID string
	CreatedAt   time.Time
}
