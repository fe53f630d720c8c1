package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/form-service/internal/api/dto"
	"github.com/spec-kit/form-service/internal/auth"
	"github.com/spec-kit/form-service/internal/draft"
	"github.com/spec-kit/form-service/internal/form"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

// FormHandler owns one submission controller per authenticated user. The
// controller carries state across requests: the draft-seeded values, the
// progressive validation annotations and the toast.
type FormHandler struct {
	mu          sync.Mutex
	controllers map[string]*form.Controller

	cfg      form.Config
	drafts   *draft.Store
	writer   form.RecordWriter
	sessions form.SessionProvider
	logger   *zap.Logger
}

// NewFormHandler constructs handler.
func NewFormHandler(cfg form.Config, drafts *draft.Store, writer form.RecordWriter, sessions form.SessionProvider, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		controllers: make(map[string]*form.Controller),
		cfg:         cfg,
		drafts:      drafts,
		writer:      writer,
		sessions:    sessions,
		logger:      logger,
	}
}

// Open GET /form. Opening always hides any stale toast before the draft is
// loaded.
func (h *FormHandler) Open(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ctrl := h.controllerFor(principal.User.ID)
	ctrl.Open(c.UserContext())
	return c.JSON(fiber.Map{"data": formState(ctrl)})
}

// SetField PATCH /form/fields.
func (h *FormHandler) SetField(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.FieldChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ctrl := h.controllerFor(principal.User.ID)
	if err := ctrl.SetField(c.UserContext(), req.Name, req.Value); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return c.JSON(fiber.Map{"data": formState(ctrl)})
}

// Blur POST /form/fields/:name/blur.
func (h *FormHandler) Blur(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ctrl := h.controllerFor(principal.User.ID)
	if err := ctrl.Blur(c.Params("name")); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return c.JSON(fiber.Map{"data": formState(ctrl)})
}

// Submit POST /form/submit.
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ctrl := h.controllerFor(principal.User.ID)
	submission, err := ctrl.Submit(c.UserContext())
	if err != nil {
		if errors.Is(err, form.ErrSubmitInFlight) {
			return apperrors.NewConflict(err.Error(), nil)
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"submission": submissionResponse(submission),
		"form":       formState(ctrl),
	}})
}

// Close POST /form/close. An in-flight write keeps running; only the view
// detaches.
func (h *FormHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	h.mu.Lock()
	ctrl := h.controllers[principal.User.ID]
	h.mu.Unlock()
	if ctrl != nil {
		ctrl.Close()
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"closed": true}})
}

func (h *FormHandler) controllerFor(userID string) *form.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ctrl, ok := h.controllers[userID]; ok {
		return ctrl
	}
	cfg := h.cfg
	// Each user gets an isolated draft slot.
	cfg.Slot = h.cfg.Slot + ":" + userID
	ctrl := form.NewController(cfg, form.Dependencies{
		Drafts:   h.drafts,
		Writer:   h.writer,
		Sessions: h.sessions,
		Logger:   h.logger,
		OnClose: func() {
			h.mu.Lock()
			delete(h.controllers, userID)
			h.mu.Unlock()
		},
	})
	h.controllers[userID] = ctrl
	return ctrl
}

func formState(ctrl *form.Controller) dto.FormStateResponse {
	return dto.FormStateResponse{
		State:       string(ctrl.State()),
		Values:      ctrl.Values(),
		FieldErrors: ctrl.FieldErrors(),
		Toast:       ctrl.Toast(),
	}
}
