package handlers

import (
	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"
	"bto-flathub/internal/core/services"
	"bto-flathub/internal/pkg/pagination"
	"bto-flathub/internal/pkg/response"
	"bto-flathub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler handles officer registration endpoints
type RegistrationHandler struct {
	regService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(regService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regService: regService}
}

// SubmitRegistrationRequest represents registration request body
type SubmitRegistrationRequest struct {
	ProjectID uint `json:"project_id" validate:"required"`
}

// Submit registers the officer to administer a project
// @Summary Submit registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRegistrationRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /registrations [post]
func (h *RegistrationHandler) Submit(c *fiber.Ctx) error {
	officerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SubmitRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	reg, err := h.regService.Submit(c.Context(), officerID, req.ProjectID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, "Registration submitted successfully", fiber.Map{
		"registration": reg.ToResponse(),
	})
}

// ListMine lists the officer's registrations
// @Summary List my registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /registrations/me [get]
func (h *RegistrationHandler) ListMine(c *fiber.Ctx) error {
	officerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	regs, err := h.regService.ListMy(c.Context(), officerID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list registrations")
	}

	resp := make([]*models.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, reg.ToResponse())
	}

	return response.Success(c, "Registrations retrieved successfully", fiber.Map{
		"registrations": resp,
	})
}

// ListByProject lists a project's registrations (owning manager only)
// @Summary List project registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /projects/{id}/registrations [get]
func (h *RegistrationHandler) ListByProject(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	params := pagination.GetParams(c)
	status := domain.RegistrationStatus(c.Query("status"))

	regs, total, err := h.regService.ListByProject(c.Context(), projectID, managerID, status, params.Offset, params.Limit)
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]*models.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, reg.ToResponse())
	}

	return response.Success(c, "Registrations retrieved successfully", pagination.NewResponse(resp, params, total))
}

// Approve approves a pending registration (owning manager only)
// @Summary Approve registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /registrations/{id}/approve [post]
func (h *RegistrationHandler) Approve(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	regID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid registration ID")
	}

	reg, err := h.regService.Approve(c.Context(), regID, managerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Registration approved", fiber.Map{
		"registration": reg.ToResponse(),
	})
}

// Reject rejects a pending registration (owning manager only)
// @Summary Reject registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /registrations/{id}/reject [post]
func (h *RegistrationHandler) Reject(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	regID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid registration ID")
	}

	reg, err := h.regService.Reject(c.Context(), regID, managerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Registration rejected", fiber.Map{
		"registration": reg.ToResponse(),
	})
}
