package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/events"
	"github.com/spec-kit/form-service/internal/persistence"
	"github.com/spec-kit/form-service/internal/repository"
	"github.com/spec-kit/form-service/internal/validation"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

const listCacheKey = "submissions:list"

// SubmissionService coordinates the record store, the list cache and domain
// events. It is the form controller's RecordWriter.
type SubmissionService struct {
	submissions repository.SubmissionRepository
	cache       *persistence.Redis
	cacheTTL    time.Duration
	dispatcher  events.Dispatcher
	logger      *zap.Logger

	mu       sync.Mutex
	deleting map[string]struct{}
}

// SubmissionDependencies bundles collaborators for the service.
type SubmissionDependencies struct {
	SubmissionRepo repository.SubmissionRepository
	Cache          *persistence.Redis
	CacheTTL       time.Duration
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions: deps.SubmissionRepo,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		deleting:    make(map[string]struct{}),
	}
}

// Write persists a validated record. The submitter identity comes from the
// session and the creation timestamp from the store, never from field input.
// The last name normalizes empty-string to absent.
func (s *SubmissionService) Write(ctx context.Context, submitterID string, values validation.Values) (*domain.Submission, error) {
	age, err := validation.ParseAge(values[validation.FieldAge])
	if err != nil {
		return nil, apperrors.NewValidationError("Age must be a number", nil)
	}

	submission := &domain.Submission{
		FirstName:   values[validation.FieldFirstName],
		Email:       values[validation.FieldEmail],
		Phone:       values[validation.FieldPhone],
		Age:         age,
		Occupation:  values[validation.FieldOccupation],
		Address:     values[validation.FieldAddress],
		SubmitterID: submitterID,
	}
	if last := values[validation.FieldLastName]; last != "" {
		submission.LastName = &last
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	s.publishEvent(ctx, events.Event{
		Type:         events.EventSubmissionCreated,
		SubmissionID: submission.ID,
		Actor:        events.Actor{UserID: submitterID, Role: domain.RoleUser},
		Payload: events.SubmissionCreatedPayload{
			Email:      submission.Email,
			Occupation: submission.Occupation,
		},
	})
	return submission, nil
}

// List returns all submissions, newest first, served from the Redis cache
// when a fresh copy exists. Cache failures fall back to the store.
func (s *SubmissionService) List(ctx context.Context) ([]domain.Submission, error) {
	if cached, ok := s.loadListCache(ctx); ok {
		return cached, nil
	}

	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return nil, err
	}
	s.storeListCache(ctx, submissions)
	return submissions, nil
}

// Get returns a single record by id.
func (s *SubmissionService) Get(ctx context.Context, id string) (*domain.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("submission", map[string]any{"id": id})
		}
		return nil, err
	}
	return submission, nil
}

// Delete removes a record. Deletion is granted solely by the admin role; at
// most one delete per record id is in flight at a time, and a record already
// deleted by a concurrent admin resolves as already-absent rather than an
// error. The cache is refreshed either way so the list converges on the true
// remote state.
func (s *SubmissionService) Delete(ctx context.Context, actorID string, role domain.Role, id string) (bool, error) {
	if role != domain.RoleAdmin {
		return false, apperrors.NewForbidden("admin role required")
	}

	s.mu.Lock()
	if _, busy := s.deleting[id]; busy {
		s.mu.Unlock()
		return false, apperrors.NewConflict("delete already in progress", map[string]any{"id": id})
	}
	s.deleting[id] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.deleting, id)
		s.mu.Unlock()
	}()

	alreadyAbsent := false
	if err := s.submissions.Delete(ctx, id); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, err
		}
		alreadyAbsent = true
	}

	s.invalidateListCache(ctx)
	s.publishEvent(ctx, events.Event{
		Type:         events.EventSubmissionDeleted,
		SubmissionID: id,
		Actor:        events.Actor{UserID: actorID, Role: role},
		Payload:      events.SubmissionDeletedPayload{AlreadyAbsent: alreadyAbsent},
	})
	return alreadyAbsent, nil
}

func (s *SubmissionService) loadListCache(ctx context.Context) ([]domain.Submission, bool) {
	if s.cache == nil || s.cache.Client == nil {
		return nil, false
	}
	raw, err := s.cache.Client.Get(ctx, listCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var submissions []domain.Submission
	if err := json.Unmarshal([]byte(raw), &submissions); err != nil {
		s.logger.Debug("list cache decode failed", zap.Error(err))
		return nil, false
	}
	return submissions, true
}

func (s *SubmissionService) storeListCache(ctx context.Context, submissions []domain.Submission) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(submissions)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, listCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("list cache store failed", zap.Error(err))
	}
}

func (s *SubmissionService) invalidateListCache(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, listCacheKey).Err(); err != nil {
		s.logger.Debug("list cache invalidation failed", zap.Error(err))
	}
}

func (s *SubmissionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
