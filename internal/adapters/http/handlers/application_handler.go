package handlers

import (
	"strconv"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"
	"bto-flathub/internal/core/services"
	"bto-flathub/internal/pkg/pagination"
	"bto-flathub/internal/pkg/response"
	"bto-flathub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles flat application endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// Submit submits a new flat application
// @Summary Submit application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	app, err := h.appService.Submit(c.Context(), userID, &input)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// GetMine returns the caller's active application
// @Summary Get my application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/me [get]
func (h *ApplicationHandler) GetMine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	app, err := h.appService.GetMyApplication(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Availability reports whether the caller's application is ready for booking
// @Summary Booking availability
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/me/availability [get]
func (h *ApplicationHandler) Availability(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	available, err := h.appService.AvailableToBook(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check booking availability")
	}

	return response.Success(c, "Availability retrieved successfully", fiber.Map{
		"available": available,
	})
}

// List lists applications with filters (manager only)
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param project_id query int false "Filter by project"
// @Param status query string false "Filter by status"
// @Param withdrawal_requested query bool false "Only pending withdrawal requests"
// @Param managed query bool false "Only applications against own projects"
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: domain.ApplicationStatus(c.Query("status")),
	}

	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid project ID")
		}
		projectID := uint(id)
		input.ProjectID = &projectID
	}
	if v := c.Query("withdrawal_requested"); v != "" {
		requested, err := strconv.ParseBool(v)
		if err != nil {
			return response.BadRequest(c, "Invalid withdrawal_requested value")
		}
		input.WithdrawalRequested = &requested
	}
	if managed, _ := strconv.ParseBool(c.Query("managed", "false")); managed {
		input.ManagerID = &userID
	}

	apps, total, err := h.appService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	resp := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, app.ToResponse())
	}

	return response.Success(c, "Applications retrieved successfully", pagination.NewResponse(resp, params, total))
}

// Approve approves a pending application (manager only)
// @Summary Approve application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Approve(c.Context(), appID, managerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Application approved", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Reject rejects a pending application (manager only)
// @Summary Reject application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Reject(c.Context(), appID, managerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Application rejected", fiber.Map{
		"application": app.ToResponse(),
	})
}

// RequestWithdrawal flags the caller's active application for withdrawal
// @Summary Request withdrawal
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/me/withdrawal [post]
func (h *ApplicationHandler) RequestWithdrawal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	app, err := h.appService.RequestWithdrawal(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Withdrawal requested", fiber.Map{
		"application": app.ToResponse(),
	})
}

// ApproveWithdrawal grants a withdrawal request (manager only)
// @Summary Approve withdrawal
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/withdrawal/approve [post]
func (h *ApplicationHandler) ApproveWithdrawal(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.ApproveWithdrawal(c.Context(), appID, managerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Withdrawal approved", fiber.Map{
		"application": app.ToResponse(),
	})
}

// RejectWithdrawal denies a withdrawal request (manager only)
// @Summary Reject withdrawal
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/withdrawal/reject [post]
func (h *ApplicationHandler) RejectWithdrawal(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.RejectWithdrawal(c.Context(), appID, managerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Withdrawal rejected", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Book books a flat for a successful application (handling officer only)
// @Summary Book flat
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/book [post]
func (h *ApplicationHandler) Book(c *fiber.Ctx) error {
	officerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Book(c.Context(), appID, officerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Flat booked successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Receipt generates the booking receipt (handling officer only)
// @Summary Booking receipt
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/receipt [get]
func (h *ApplicationHandler) Receipt(c *fiber.Ctx) error {
	officerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	receipt, err := h.appService.BookingReceipt(c.Context(), appID, officerID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Receipt generated successfully", fiber.Map{
		"receipt": receipt,
	})
}
