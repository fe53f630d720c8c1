package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/form-service/internal/api/dto"
	"github.com/spec-kit/form-service/internal/auth"
	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/service"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

// SubmissionsHandler exposes the submissions list and the moderation delete.
type SubmissionsHandler struct {
	service *service.SubmissionService
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissionService *service.SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{service: submissionService}
}

// List GET /submissions.
func (h *SubmissionsHandler) List(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	submissions, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		items = append(items, submissionResponse(&submissions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /submissions/:id.
func (h *SubmissionsHandler) Get(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	submission, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submissionResponse(submission)})
}

// Delete DELETE /submissions/:id. A record already removed by a concurrent
// admin reports already_absent rather than failing.
func (h *SubmissionsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id := c.Params("id")
	alreadyAbsent, err := h.service.Delete(c.Context(), principal.User.ID, principal.Role, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteSubmissionResponse{
		ID:            id,
		Deleted:       !alreadyAbsent,
		AlreadyAbsent: alreadyAbsent,
	}})
}

func submissionResponse(submission *domain.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:          submission.ID,
		FirstName:   submission.FirstName,
		LastName:    submission.LastName,
		Email:       submission.Email,
		Phone:       submission.Phone,
		Age:         submission.Age,
		Occupation:  submission.Occupation,
		Address:     submission.Address,
		SubmitterID: submission.SubmitterID,
		CreatedAt:   submission.CreatedAt,
	}
}
