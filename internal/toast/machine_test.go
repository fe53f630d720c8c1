package toast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowSuccessAndError(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.State().Visible)

	m.ShowSuccess("Form submitted successfully!")
	state := m.State()
	assert.True(t, state.Visible)
	assert.Equal(t, KindSuccess, state.Kind)
	assert.Equal(t, "Form submitted successfully!", state.Message)

	m.ShowError("boom")
	state = m.State()
	assert.True(t, state.Visible)
	assert.Equal(t, KindError, state.Kind)
	assert.Equal(t, "boom", state.Message)
}

func TestHidePreservesMessageAndKind(t *testing.T) {
	m := NewMachine()
	m.ShowError("boom")
	m.Hide()

	state := m.State()
	assert.False(t, state.Visible)
	assert.Equal(t, "boom", state.Message)
	assert.Equal(t, KindError, state.Kind)
}

func TestEmptyPayloadGetsDefaultMessage(t *testing.T) {
	m := NewMachine()

	m.ShowSuccess("")
	assert.Equal(t, "Success!", m.State().Message)

	m.ShowError("")
	assert.Equal(t, "Error!", m.State().Message)
}

func TestHideIsIdempotent(t *testing.T) {
	m := NewMachine()
	m.Hide()
	m.Hide()
	assert.False(t, m.State().Visible)
}
