package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/form-service/internal/domain"
)

// SubmissionRepository encapsulates submission persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	List(ctx context.Context) ([]domain.Submission, error)
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	Delete(ctx context.Context, id string) error
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository instantiates repository.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

func (r *submissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	const query = `
        INSERT INTO submissions (first_name, last_name, email, phone, age, occupation, address, submitter_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		submission.FirstName,
		submission.LastName,
		submission.Email,
		submission.Phone,
		submission.Age,
		submission.Occupation,
		submission.Address,
		submission.SubmitterID,
	).Scan(&submission.ID, &submission.CreatedAt)
}

// List returns all submissions, newest first. The explicit sort avoids
// leaning on store iteration order.
func (r *submissionRepository) List(ctx context.Context) ([]domain.Submission, error) {
	const query = `
        SELECT id, first_name, last_name, email, phone, age, occupation, address, submitter_id, created_at
        FROM submissions ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	const query = `
        SELECT id, first_name, last_name, email, phone, age, occupation, address, submitter_id, created_at
        FROM submissions WHERE id=$1`
	var submission domain.Submission
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&submission.ID,
		&submission.FirstName,
		&submission.LastName,
		&submission.Email,
		&submission.Phone,
		&submission.Age,
		&submission.Occupation,
		&submission.Address,
		&submission.SubmitterID,
		&submission.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &submission, nil
}

// Delete removes a submission. A missing row reports pgx.ErrNoRows so callers
// can treat a stale second delete as already-absent.
func (r *submissionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM submissions WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSubmissions(rows pgx.Rows) ([]domain.Submission, error) {
	var result []domain.Submission
	for rows.Next() {
		var submission domain.Submission
		if err := rows.Scan(
			&submission.ID,
			&submission.FirstName,
			&submission.LastName,
			&submission.Email,
			&submission.Phone,
			&submission.Age,
			&submission.Occupation,
			&submission.Address,
			&submission.SubmitterID,
			&submission.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, submission)
	}
	return result, rows.Err()
}
