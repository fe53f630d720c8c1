package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/draft"
	"github.com/spec-kit/form-service/internal/toast"
	"github.com/spec-kit/form-service/internal/validation"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

// State enumerates the submission lifecycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// ErrSubmitInFlight rejects a second submit while one write is outstanding.
var ErrSubmitInFlight = errors.New("submission already in flight")

// ErrUnknownField rejects edits to fields outside the ruleset.
var ErrUnknownField = errors.New("unknown form field")

const authGateMessage = "Please sign in to submit the form."

// RecordWriter persists a validated record. The submitter identity and the
// creation timestamp are attached by the write itself, never by user input.
// Implementations also refresh any cached submissions list.
type RecordWriter interface {
	Write(ctx context.Context, submitterID string, values validation.Values) (*domain.Submission, error)
}

// Config tunes a controller instance.
type Config struct {
	Slot       string
	CloseDelay time.Duration
}

// Dependencies bundles collaborators for the controller.
type Dependencies struct {
	Drafts   *draft.Store
	Writer   RecordWriter
	Sessions SessionProvider
	Logger   *zap.Logger
	// OnClose is invoked after the controller detaches, either explicitly or
	// via the post-success display delay.
	OnClose func()
}

// Controller orchestrates one open form: draft load, field edits with
// progressive validation, the auth-gated submit, and the toast transitions.
// It is safe for concurrent use; exactly one remote write is in flight at a
// time, and completion side effects become no-ops once the form is closed.
type Controller struct {
	mu         sync.Mutex
	cfg        Config
	drafts     *draft.Store
	writer     RecordWriter
	sessions   SessionProvider
	logger     *zap.Logger
	onClose    func()
	toasts     *toast.Machine
	eval       *validation.Evaluator
	values     validation.Values
	state      State
	submitting bool
	live       bool
	closeTimer *time.Timer
}

// NewController builds a controller. Open must be called before use.
func NewController(cfg Config, deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:      cfg,
		drafts:   deps.Drafts,
		writer:   deps.Writer,
		sessions: deps.Sessions,
		logger:   logger,
		onClose:  deps.OnClose,
		toasts:   toast.NewMachine(),
		eval:     validation.NewEvaluator(),
		values:   validation.Defaults(),
		state:    StateIdle,
	}
}

// Open attaches the form: the toast is forced hidden before anything else, the
// draft slot seeds the field values, and validation starts disengaged.
func (c *Controller) Open(ctx context.Context) validation.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts.Hide()
	c.values = c.drafts.Load(ctx, c.cfg.Slot, validation.Defaults())
	c.eval.Reset()
	c.state = StateIdle
	c.live = true
	return copyValues(c.values)
}

// SetField records a field change, persists the draft and applies progressive
// re-validation. Typing is never blocked; violations only annotate the field.
func (c *Controller) SetField(ctx context.Context, name, value string) error {
	if !validation.KnownField(name) {
		return ErrUnknownField
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
	c.drafts.Save(ctx, c.cfg.Slot, c.values)
	c.eval.OnChange(name, c.values)
	return nil
}

// Blur validates the named field for the first time and engages change
// re-validation for the rest of the session.
func (c *Controller) Blur(name string) error {
	if !validation.KnownField(name) {
		return ErrUnknownField
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eval.OnBlur(name, c.values)
	return nil
}

// Submit runs the lifecycle: auth gate, synchronous validation, then exactly
// one remote write. On success the draft is cleared, fields reset and the form
// closes after the configured delay; on failure the values stay intact.
func (c *Controller) Submit(ctx context.Context) (*domain.Submission, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	session := c.sessions.Session(ctx)
	if !session.SignedIn || session.SubjectID == "" {
		// No network call is made for an unauthenticated submit.
		c.state = StateFailed
		c.toasts.ShowError(authGateMessage)
		c.state = StateIdle
		c.mu.Unlock()
		return nil, apperrors.NewUnauthorized(authGateMessage)
	}

	c.state = StateValidating
	violations := validation.Apply(c.values)
	if len(violations) > 0 {
		// Field-level errors stay on the fields; no toast.
		c.eval.SetErrors(violations)
		c.state = StateIdle
		c.mu.Unlock()
		details := make(map[string]any, len(violations))
		for field, msg := range violations {
			details[field] = msg
		}
		return nil, apperrors.NewValidationError("form validation failed", details)
	}

	c.state = StateSubmitting
	c.submitting = true
	submitterID := session.SubjectID
	values := copyValues(c.values)
	c.mu.Unlock()

	record, err := c.writer.Write(ctx, submitterID, values)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.state = StateFailed
		c.logger.Warn("submission write failed", zap.Error(err))
		if c.live {
			c.toasts.ShowError(err.Error())
		}
		c.state = StateIdle
		return nil, apperrors.NewRemoteWriteError(err)
	}

	c.state = StateSucceeded
	c.drafts.Clear(ctx, c.cfg.Slot)
	if c.live {
		c.toasts.ShowSuccess("Form submitted successfully!")
		c.values = validation.Defaults()
		c.eval.Reset()
		c.scheduleCloseLocked()
	} else {
		// The view is gone; presentation side effects are skipped.
		c.state = StateIdle
	}
	return record, nil
}

// Close detaches the form. An in-flight write is not cancelled; its completion
// handlers simply stop touching presentation state.
func (c *Controller) Close() {
	c.mu.Lock()
	wasLive := c.live
	c.live = false
	if c.closeTimer != nil {
		c.closeTimer.Stop()
		c.closeTimer = nil
	}
	c.toasts.Hide()
	c.state = StateIdle
	onClose := c.onClose
	c.mu.Unlock()

	if wasLive && onClose != nil {
		onClose()
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Live reports whether the form view is still attached.
func (c *Controller) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Values returns a copy of the current field values.
func (c *Controller) Values() validation.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyValues(c.values)
}

// FieldErrors returns the current field annotations.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eval.Errors()
}

// Toast returns the current toast snapshot.
func (c *Controller) Toast() toast.State {
	return c.toasts.State()
}

func (c *Controller) scheduleCloseLocked() {
	if c.cfg.CloseDelay <= 0 {
		return
	}
	if c.closeTimer != nil {
		c.closeTimer.Stop()
	}
	c.closeTimer = time.AfterFunc(c.cfg.CloseDelay, func() {
		c.mu.Lock()
		live := c.live
		c.mu.Unlock()
		if live {
			c.Close()
		}
	})
}

func copyValues(values validation.Values) validation.Values {
	out := make(validation.Values, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
