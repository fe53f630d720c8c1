package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatorIgnoresChangesBeforeFirstBlur(t *testing.T) {
	eval := NewEvaluator()
	values := Values{FieldFirstName: "J"}

	eval.OnChange(FieldFirstName, values)
	assert.False(t, eval.Engaged())
	assert.Empty(t, eval.Errors())
}

func TestEvaluatorEngagesOnBlur(t *testing.T) {
	eval := NewEvaluator()
	values := Values{FieldFirstName: "J"}

	eval.OnBlur(FieldFirstName, values)
	assert.True(t, eval.Engaged())
	assert.Equal(t, "First name must be at least 2 characters", eval.Errors()[FieldFirstName])

	// Once engaged, a change re-validates immediately.
	values[FieldFirstName] = "Jane"
	eval.OnChange(FieldFirstName, values)
	assert.Empty(t, eval.Errors())
}

func TestEvaluatorAgeChangeReevaluatesAddress(t *testing.T) {
	eval := NewEvaluator()
	values := Values{FieldAge: "12", FieldAddress: ""}

	eval.OnBlur(FieldAddress, values)
	assert.Empty(t, eval.Errors())

	values[FieldAge] = "30"
	eval.OnChange(FieldAge, values)
	assert.Equal(t, "Address is required for age above 18", eval.Errors()[FieldAddress])
}

func TestEvaluatorReset(t *testing.T) {
	eval := NewEvaluator()
	eval.OnBlur(FieldFirstName, Values{})
	assert.NotEmpty(t, eval.Errors())

	eval.Reset()
	assert.False(t, eval.Engaged())
	assert.Empty(t, eval.Errors())
}
