package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() Values {
	return Values{
		FieldFirstName:  "Jane",
		FieldLastName:   "Doe",
		FieldEmail:      "jane@example.com",
		FieldPhone:      "5551234567",
		FieldAge:        "30",
		FieldOccupation: "Engineer",
		FieldAddress:    "12 Main Street",
	}
}

func TestApplyAcceptsValidValues(t *testing.T) {
	violations := Apply(validValues())
	assert.Empty(t, violations)
}

func TestFirstNameRules(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"missing", "", "First name is required"},
		{"too short", "J", "First name must be at least 2 characters"},
		{"too long", "Janeeeeeeeeeeeee", "First name must be less than 15 characters"},
		{"digits", "Jane99", "First name can only contain letters and spaces"},
		{"ok", "Jane", ""},
		{"ok with space", "Mary Jane", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := validValues()
			values[FieldFirstName] = tc.value
			msg, ok := ValidateField(FieldFirstName, values)
			if tc.want == "" {
				assert.True(t, ok)
			} else {
				require.False(t, ok)
				assert.Equal(t, tc.want, msg)
			}
		})
	}
}

func TestLastNameIsOptional(t *testing.T) {
	values := validValues()
	values[FieldLastName] = ""
	_, ok := ValidateField(FieldLastName, values)
	assert.True(t, ok)

	values[FieldLastName] = "Doeeeeeeeeeeeeeee"
	msg, ok := ValidateField(FieldLastName, values)
	require.False(t, ok)
	assert.Equal(t, "Last name must be less than 15 characters", msg)
}

func TestPhoneMustBeExactlyTenDigits(t *testing.T) {
	for _, bad := range []string{"12345", "12345678901", "12a4567890", "1234 56789"} {
		values := validValues()
		values[FieldPhone] = bad
		msg, ok := ValidateField(FieldPhone, values)
		require.False(t, ok, "phone %q should fail", bad)
		assert.Equal(t, "Phone number must be exactly 10 digits", msg)
	}

	values := validValues()
	values[FieldPhone] = "0123456789"
	_, ok := ValidateField(FieldPhone, values)
	assert.True(t, ok)
}

func TestAgeCoercionHasDistinctMessage(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"", "Age is required"},
		{"abc", "Age must be a number"},
		{"12.5", "Age must be a whole number"},
		{"4", "Age must be at least 5"},
		{"121", "Age must be less than 120"},
		{"30", ""},
		{"5", ""},
		{"120", ""},
	}
	for _, tc := range cases {
		values := validValues()
		values[FieldAge] = tc.value
		msg, ok := ValidateField(FieldAge, values)
		if tc.want == "" {
			assert.True(t, ok, "age %q should pass", tc.value)
		} else {
			require.False(t, ok, "age %q should fail", tc.value)
			assert.Equal(t, tc.want, msg)
		}
	}
}

func TestAddressConditionalOnAge(t *testing.T) {
	// Age 18 and under: empty address passes.
	values := validValues()
	values[FieldAge] = "18"
	values[FieldAddress] = ""
	_, ok := ValidateField(FieldAddress, values)
	assert.True(t, ok)

	values[FieldAge] = "12"
	_, ok = ValidateField(FieldAddress, values)
	assert.True(t, ok)

	// Over 18: empty address fails with the requiredness message.
	values[FieldAge] = "19"
	msg, ok := ValidateField(FieldAddress, values)
	require.False(t, ok)
	assert.Equal(t, "Address is required for age above 18", msg)

	// The max-length bound applies whenever a value is present, and its
	// message is distinct from the requiredness one.
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	values[FieldAddress] = string(long)
	msg, ok = ValidateField(FieldAddress, values)
	require.False(t, ok)
	assert.Equal(t, "Address must be less than 500 characters", msg)

	values[FieldAge] = "12"
	msg, ok = ValidateField(FieldAddress, values)
	require.False(t, ok)
	assert.Equal(t, "Address must be less than 500 characters", msg)
}

func TestEmailRules(t *testing.T) {
	values := validValues()
	values[FieldEmail] = "not-an-email"
	msg, ok := ValidateField(FieldEmail, values)
	require.False(t, ok)
	assert.Equal(t, "Please enter a valid email address", msg)

	values[FieldEmail] = "very.long.address.over.limit@example.com"
	msg, ok = ValidateField(FieldEmail, values)
	require.False(t, ok)
	assert.Equal(t, "Email must be less than 30 characters", msg)
}

func TestLengthRulesCountCharactersNotBytes(t *testing.T) {
	// 23 characters but 35 bytes; stays within the 30-character bound.
	values := validValues()
	values[FieldEmail] = "ééééééééééé@exémplé.com"
	_, ok := ValidateField(FieldEmail, values)
	assert.True(t, ok)

	values = validValues()
	values[FieldAge] = "30"
	values[FieldAddress] = strings.Repeat("é", 500)
	_, ok = ValidateField(FieldAddress, values)
	assert.True(t, ok)

	values[FieldAddress] = strings.Repeat("é", 501)
	msg, ok := ValidateField(FieldAddress, values)
	require.False(t, ok)
	assert.Equal(t, "Address must be less than 500 characters", msg)
}

func TestApplyCollectsAllViolations(t *testing.T) {
	violations := Apply(Values{})
	assert.Equal(t, "First name is required", violations[FieldFirstName])
	assert.Equal(t, "Email is required", violations[FieldEmail])
	assert.Equal(t, "Phone is required", violations[FieldPhone])
	assert.Equal(t, "Age is required", violations[FieldAge])
	assert.Equal(t, "Occupation is required", violations[FieldOccupation])
	assert.NotContains(t, violations, FieldLastName)
	assert.NotContains(t, violations, FieldAddress)
}

func TestDefaultsCoverEveryField(t *testing.T) {
	defaults := Defaults()
	for _, name := range []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldAge, FieldOccupation, FieldAddress} {
		_, present := defaults[name]
		assert.True(t, present, "missing default for %s", name)
	}
}
