package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/form-service/internal/validation"
)

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memoryKV) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) {
	return "", errors.New("backend down")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("backend down")
}

func (failingKV) Del(context.Context, string) error {
	return errors.New("backend down")
}

func TestSaveThenLoadReturnsSavedValues(t *testing.T) {
	store := NewStore(newMemoryKV(), nil)
	ctx := context.Background()

	saved := validation.Values{"firstName": "Jane", "age": "30"}
	store.Save(ctx, "slot", saved)

	fallback := validation.Defaults()
	loaded := store.Load(ctx, "slot", fallback)
	assert.Equal(t, saved, loaded)
}

func TestLoadAbsentSlotReturnsFallback(t *testing.T) {
	store := NewStore(newMemoryKV(), nil)
	fallback := validation.Values{"firstName": "fallback"}

	loaded := store.Load(context.Background(), "missing", fallback)
	assert.Equal(t, fallback, loaded)
}

func TestClearThenLoadReturnsFallback(t *testing.T) {
	store := NewStore(newMemoryKV(), nil)
	ctx := context.Background()

	store.Save(ctx, "slot", validation.Values{"firstName": "Jane"})
	store.Clear(ctx, "slot")

	fallback := validation.Values{"firstName": "F"}
	assert.Equal(t, fallback, store.Load(ctx, "slot", fallback))
}

func TestClearAbsentSlotIsNoOp(t *testing.T) {
	store := NewStore(newMemoryKV(), nil)
	assert.NotPanics(t, func() {
		store.Clear(context.Background(), "never-saved")
	})
}

func TestSaveOverwritesPriorDraft(t *testing.T) {
	store := NewStore(newMemoryKV(), nil)
	ctx := context.Background()

	store.Save(ctx, "slot", validation.Values{"firstName": "Jane"})
	store.Save(ctx, "slot", validation.Values{"firstName": "Joan"})

	loaded := store.Load(ctx, "slot", nil)
	require.NotNil(t, loaded)
	assert.Equal(t, "Joan", loaded["firstName"])
}

func TestUndecodablePayloadFallsBack(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(kv, nil)
	ctx := context.Background()

	// A payload from an older, incompatible layout.
	kv.data["draft:slot"] = `["not","a","map"]`

	fallback := validation.Defaults()
	assert.Equal(t, fallback, store.Load(ctx, "slot", fallback))
}

func TestPersistenceErrorsNeverPropagate(t *testing.T) {
	store := NewStore(failingKV{}, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		store.Save(ctx, "slot", validation.Values{"firstName": "Jane"})
		store.Clear(ctx, "slot")
	})
	fallback := validation.Values{"firstName": "F"}
	assert.Equal(t, fallback, store.Load(ctx, "slot", fallback))
}

func TestSlotsAreIndependent(t *testing.T) {
	store := NewStore(newMemoryKV(), nil)
	ctx := context.Background()

	store.Save(ctx, "a", validation.Values{"firstName": "Jane"})
	store.Save(ctx, "b", validation.Values{"firstName": "Joan"})
	store.Clear(ctx, "a")

	loaded := store.Load(ctx, "b", nil)
	require.NotNil(t, loaded)
	assert.Equal(t, "Joan", loaded["firstName"])
}
