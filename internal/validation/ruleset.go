package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field name constants shared by the form controller, draft payloads and the
// HTTP layer.
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldAge        = "age"
	FieldOccupation = "occupation"
	FieldAddress    = "address"
)

// Values maps field name to the current, possibly invalid, raw input.
type Values map[string]string

// Rule pairs a predicate with the message surfaced on violation. Rules run in
// order and evaluation stops at the first violation.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// FieldSpec is one row of the validation table. Rules apply only when a value
// is present; RequiredMessage empty marks the field optional. Conditional, when
// set, decides requiredness from the full value set (the address/age rule).
type FieldSpec struct {
	Name            string
	RequiredMessage string
	Conditional     func(values Values) (message string, required bool)
	Rules           []Rule
}

var (
	lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern     = regexp.MustCompile(`^[0-9]{10}$`)
)

// fields is the declarative ruleset. New fields are added here, not as
// hand-written branching in the controller.
var fields = []FieldSpec{
	{
		Name:            FieldFirstName,
		RequiredMessage: "First name is required",
		Rules: []Rule{
			{Check: minLen(2), Message: "First name must be at least 2 characters"},
			{Check: maxLen(15), Message: "First name must be less than 15 characters"},
			{Check: lettersAndSpaces.MatchString, Message: "First name can only contain letters and spaces"},
		},
	},
	{
		Name: FieldLastName,
		Rules: []Rule{
			{Check: maxLen(15), Message: "Last name must be less than 15 characters"},
			{Check: lettersAndSpaces.MatchString, Message: "Last name can only contain letters and spaces"},
		},
	},
	{
		Name:            FieldEmail,
		RequiredMessage: "Email is required",
		Rules: []Rule{
			{Check: emailPattern.MatchString, Message: "Please enter a valid email address"},
			{Check: maxLen(30), Message: "Email must be less than 30 characters"},
		},
	},
	{
		Name:            FieldPhone,
		RequiredMessage: "Phone is required",
		Rules: []Rule{
			{Check: phonePattern.MatchString, Message: "Phone number must be exactly 10 digits"},
		},
	},
	{
		Name:            FieldAge,
		RequiredMessage: "Age is required",
		Rules: []Rule{
			{Check: isNumeric, Message: "Age must be a number"},
			{Check: isWholeNumber, Message: "Age must be a whole number"},
			{Check: ageAtLeast(5), Message: "Age must be at least 5"},
			{Check: ageAtMost(120), Message: "Age must be less than 120"},
		},
	},
	{
		Name:            FieldOccupation,
		RequiredMessage: "Occupation is required",
		Rules: []Rule{
			{Check: maxLen(100), Message: "Occupation must be less than 100 characters"},
		},
	},
	{
		Name:        FieldAddress,
		Conditional: addressRequired,
		Rules: []Rule{
			{Check: maxLen(500), Message: "Address must be less than 500 characters"},
		},
	},
}

// addressRequired is the single cross-field rule: the address becomes
// mandatory once the entered age exceeds 18. The max-length rule in the table
// applies independently whenever a value is present.
func addressRequired(values Values) (string, bool) {
	age, err := ParseAge(values[FieldAge])
	if err != nil || age <= 18 {
		return "", false
	}
	return "Address is required for age above 18", true
}

// Defaults returns the empty field set used when no draft exists.
func Defaults() Values {
	out := make(Values, len(fields))
	for _, spec := range fields {
		out[spec.Name] = ""
	}
	return out
}

// KnownField reports whether name appears in the ruleset.
func KnownField(name string) bool {
	for _, spec := range fields {
		if spec.Name == name {
			return true
		}
	}
	return false
}

// ValidateField runs the table for a single field. It returns the first
// violation message, or ok=true when the field passes.
func ValidateField(name string, values Values) (string, bool) {
	for _, spec := range fields {
		if spec.Name != name {
			continue
		}
		return runSpec(spec, values)
	}
	return "", true
}

// Apply validates every field and returns the violation map. An empty map
// means the value set satisfies the whole ruleset.
func Apply(values Values) map[string]string {
	violations := make(map[string]string)
	for _, spec := range fields {
		if msg, ok := runSpec(spec, values); !ok {
			violations[spec.Name] = msg
		}
	}
	return violations
}

func runSpec(spec FieldSpec, values Values) (string, bool) {
	value := values[spec.Name]
	if value == "" {
		if spec.RequiredMessage != "" {
			return spec.RequiredMessage, false
		}
		if spec.Conditional != nil {
			if msg, required := spec.Conditional(values); required {
				return msg, false
			}
		}
		return "", true
	}
	for _, rule := range spec.Rules {
		if !rule.Check(value) {
			return rule.Message, false
		}
	}
	return "", true
}

// ParseAge coerces the raw age input to an integer. A non-numeric value is an
// error distinct from the range checks in the table.
func ParseAge(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// Length bounds count characters, not bytes, so multibyte input is not
// penalized.
func minLen(n int) func(string) bool {
	return func(v string) bool { return utf8.RuneCountInString(v) >= n }
}

func maxLen(n int) func(string) bool {
	return func(v string) bool { return utf8.RuneCountInString(v) <= n }
}

func isNumeric(v string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil
}

func isWholeNumber(v string) bool {
	if !isNumeric(v) {
		return true
	}
	_, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil
}

func ageAtLeast(n int) func(string) bool {
	return func(v string) bool {
		age, err := ParseAge(v)
		if err != nil {
			return true
		}
		return age >= n
	}
}

func ageAtMost(n int) func(string) bool {
	return func(v string) bool {
		age, err := ParseAge(v)
		if err != nil {
			return true
		}
		return age <= n
	}
}
