package validation

// Evaluator applies the ruleset with progressive strictness: a field is first
// validated when it blurs, and once any field has been validated every
// subsequent change re-validates. Untouched fields are never annotated early.
//
// Evaluator is not safe for concurrent use; the owning controller serializes
// access.
type Evaluator struct {
	engaged bool
	touched map[string]bool
	errors  map[string]string
}

// NewEvaluator returns an evaluator with no fields engaged.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		touched: make(map[string]bool),
		errors:  make(map[string]string),
	}
}

// OnBlur validates the named field and engages change re-validation.
func (e *Evaluator) OnBlur(name string, values Values) {
	if !KnownField(name) {
		return
	}
	e.engaged = true
	e.touched[name] = true
	e.runField(name, values)
}

// OnChange re-validates the changed field, but only once the evaluator is
// engaged. An age change also re-evaluates the address so the cross-field rule
// tracks it immediately.
func (e *Evaluator) OnChange(name string, values Values) {
	if !e.engaged || !KnownField(name) {
		return
	}
	e.touched[name] = true
	e.runField(name, values)
	if name == FieldAge && e.touched[FieldAddress] {
		e.runField(FieldAddress, values)
	}
}

// Engaged reports whether any field has been validated yet.
func (e *Evaluator) Engaged() bool {
	return e.engaged
}

// Errors returns a copy of the current field annotations.
func (e *Evaluator) Errors() map[string]string {
	out := make(map[string]string, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// SetErrors replaces the annotations wholesale, used after a full submit-time
// validation pass.
func (e *Evaluator) SetErrors(violations map[string]string) {
	e.engaged = true
	e.errors = make(map[string]string, len(violations))
	for k, v := range violations {
		e.errors[k] = v
		e.touched[k] = true
	}
}

// Reset clears all annotations and disengages change re-validation.
func (e *Evaluator) Reset() {
	e.engaged = false
	e.touched = make(map[string]bool)
	e.errors = make(map[string]string)
}

func (e *Evaluator) runField(name string, values Values) {
	if msg, ok := ValidateField(name, values); !ok {
		e.errors[name] = msg
	} else {
		delete(e.errors, name)
	}
}
