package draft

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/form-service/internal/validation"
)

// ErrNotFound is returned by a KV when the key has no value.
var ErrNotFound = errors.New("draft: key not found")

// KV is the minimal key/value capability the store needs. Production binds it
// to Redis; tests substitute an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Store persists in-progress form values under a named slot. It is advisory,
// best-effort state: every operation swallows persistence errors so a flaky
// backend can never fail the form itself.
type Store struct {
	kv     KV
	logger *zap.Logger
}

// NewStore builds a draft store over the given KV.
func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Save serializes values under slot, overwriting any prior draft. Idempotent;
// never returns an error to the caller.
func (s *Store) Save(ctx context.Context, slot string, values validation.Values) {
	payload, err := json.Marshal(values)
	if err != nil {
		s.logger.Debug("draft encode failed", zap.String("slot", slot), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key(slot), string(payload)); err != nil {
		s.logger.Debug("draft save failed", zap.String("slot", slot), zap.Error(err))
	}
}

// Load returns the draft stored at slot, or fallback when the slot is absent
// or the payload cannot be decoded. Drafts carry no version tag, so an
// incompatible stored shape degrades to the fallback rather than an error.
func (s *Store) Load(ctx context.Context, slot string, fallback validation.Values) validation.Values {
	raw, err := s.kv.Get(ctx, s.key(slot))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("draft load failed", zap.String("slot", slot), zap.Error(err))
		}
		return fallback
	}
	var values validation.Values
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		s.logger.Debug("draft decode failed", zap.String("slot", slot), zap.Error(err))
		return fallback
	}
	return values
}

// Clear removes any persisted draft at slot. Clearing an absent slot is a
// no-op.
func (s *Store) Clear(ctx context.Context, slot string) {
	if err := s.kv.Del(ctx, s.key(slot)); err != nil {
		s.logger.Debug("draft clear failed", zap.String("slot", slot), zap.Error(err))
	}
}

func (s *Store) key(slot string) string {
	return "draft:" + slot
}
