package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/events"
	"github.com/spec-kit/form-service/internal/validation"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

type stubSubmissionRepo struct {
	created       []*domain.Submission
	listResult    []domain.Submission
	getResult     *domain.Submission
	deleteErr     error
	deleted       []string
	deleteStarted chan struct{} // when set, Delete signals entry
	deleteRelease chan struct{} // when set, Delete blocks until closed
}

func (r *stubSubmissionRepo) Create(_ context.Context, submission *domain.Submission) error {
	submission.ID = "sub-1"
	r.created = append(r.created, submission)
	return nil
}

func (r *stubSubmissionRepo) List(context.Context) ([]domain.Submission, error) {
	return r.listResult, nil
}

func (r *stubSubmissionRepo) GetByID(context.Context, string) (*domain.Submission, error) {
	if r.getResult == nil {
		return nil, pgx.ErrNoRows
	}
	return r.getResult, nil
}

func (r *stubSubmissionRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	if r.deleteStarted != nil {
		r.deleteStarted <- struct{}{}
	}
	if r.deleteRelease != nil {
		<-r.deleteRelease
	}
	return r.deleteErr
}

func validFormValues() validation.Values {
	return validation.Values{
		validation.FieldFirstName:  "Jane",
		validation.FieldLastName:   "Doe",
		validation.FieldEmail:      "jane@example.com",
		validation.FieldPhone:      "5551234567",
		validation.FieldAge:        "30",
		validation.FieldOccupation: "Engineer",
		validation.FieldAddress:    "12 Main Street",
	}
}

func TestWriteAttachesSubmitterAndParsesAge(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	record, err := svc.Write(context.Background(), "user-1", validFormValues())
	require.NoError(t, err)

	assert.Equal(t, "user-1", record.SubmitterID)
	assert.Equal(t, 30, record.Age)
	require.NotNil(t, record.LastName)
	assert.Equal(t, "Doe", *record.LastName)
	require.Len(t, repo.created, 1)
}

func TestWriteNormalizesEmptyLastNameToAbsent(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	values := validFormValues()
	values[validation.FieldLastName] = ""
	record, err := svc.Write(context.Background(), "user-1", values)
	require.NoError(t, err)
	assert.Nil(t, record.LastName)
}

func TestWritePublishesCreatedEvent(t *testing.T) {
	repo := &stubSubmissionRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	var received []events.Event
	dispatcher.Subscribe(events.EventSubmissionCreated, func(_ context.Context, event events.Event) error {
		received = append(received, event)
		return nil
	})

	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo, Dispatcher: dispatcher})
	_, err := svc.Write(context.Background(), "user-1", validFormValues())
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "sub-1", received[0].SubmissionID)
	assert.Equal(t, "user-1", received[0].Actor.UserID)
}

func TestDeleteRequiresAdminRole(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	_, err := svc.Delete(context.Background(), "user-1", domain.RoleUser, "sub-1")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Empty(t, repo.deleted, "store must not be reached without the admin role")
}

func TestDeleteByAdmin(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	alreadyAbsent, err := svc.Delete(context.Background(), "admin-1", domain.RoleAdmin, "sub-1")
	require.NoError(t, err)
	assert.False(t, alreadyAbsent)
	assert.Equal(t, []string{"sub-1"}, repo.deleted)
}

func TestStaleDeleteResolvesAsAlreadyAbsent(t *testing.T) {
	repo := &stubSubmissionRepo{deleteErr: pgx.ErrNoRows}
	dispatcher := events.NewInMemoryDispatcher()

	var received []events.Event
	dispatcher.Subscribe(events.EventSubmissionDeleted, func(_ context.Context, event events.Event) error {
		received = append(received, event)
		return nil
	})

	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo, Dispatcher: dispatcher})
	alreadyAbsent, err := svc.Delete(context.Background(), "admin-1", domain.RoleAdmin, "sub-1")
	require.NoError(t, err, "a concurrently deleted record is not an error")
	assert.True(t, alreadyAbsent)

	// The deletion event still fires so observers converge on remote state.
	require.Len(t, received, 1)
	payload, ok := received[0].Payload.(events.SubmissionDeletedPayload)
	require.True(t, ok)
	assert.True(t, payload.AlreadyAbsent)
}

func TestConcurrentDeleteOfSameRecordRejected(t *testing.T) {
	repo := &stubSubmissionRepo{
		deleteStarted: make(chan struct{}, 1),
		deleteRelease: make(chan struct{}),
	}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Delete(context.Background(), "admin-1", domain.RoleAdmin, "sub-1")
		done <- err
	}()
	<-repo.deleteStarted

	_, err := svc.Delete(context.Background(), "admin-2", domain.RoleAdmin, "sub-1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	close(repo.deleteRelease)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"sub-1"}, repo.deleted)

	// The guard releases once the first delete finishes.
	repo.deleteRelease = nil
	_, err = svc.Delete(context.Background(), "admin-1", domain.RoleAdmin, "sub-1")
	require.NoError(t, err)
}

func TestGetReturnsRecord(t *testing.T) {
	repo := &stubSubmissionRepo{getResult: &domain.Submission{ID: "sub-1", FirstName: "Jane"}}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	record, err := svc.Get(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", record.FirstName)
}

func TestGetMissingRecordIsNotFound(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	_, err := svc.Get(context.Background(), "gone")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListWithoutCacheHitsStore(t *testing.T) {
	repo := &stubSubmissionRepo{listResult: []domain.Submission{{ID: "b"}, {ID: "a"}}}
	svc := NewSubmissionService(SubmissionDependencies{SubmissionRepo: repo})

	submissions, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, "b", submissions[0].ID)
}
