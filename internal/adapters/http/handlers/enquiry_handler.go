package handlers

import (
	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/services"
	"bto-flathub/internal/pkg/pagination"
	"bto-flathub/internal/pkg/response"
	"bto-flathub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// EnquiryHandler handles enquiry endpoints
type EnquiryHandler struct {
	enquiryService *services.EnquiryService
}

// NewEnquiryHandler creates a new enquiry handler
func NewEnquiryHandler(enquiryService *services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiryService: enquiryService}
}

// SubmitEnquiryRequest represents enquiry submission request body
type SubmitEnquiryRequest struct {
	ProjectID uint   `json:"project_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// Submit submits an enquiry about a project
// @Summary Submit enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitEnquiryRequest true "Enquiry data"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /enquiries [post]
func (h *EnquiryHandler) Submit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SubmitEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	enq, err := h.enquiryService.Submit(c.Context(), userID, req.ProjectID, req.Message)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, "Enquiry submitted successfully", fiber.Map{
		"enquiry": enq.ToResponse(),
	})
}

// ListMine lists the caller's enquiries
// @Summary List my enquiries
// @Tags Enquiries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /enquiries/me [get]
func (h *EnquiryHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	enqs, total, err := h.enquiryService.ListMy(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list enquiries")
	}

	resp := make([]*models.EnquiryResponse, 0, len(enqs))
	for _, enq := range enqs {
		resp = append(resp, enq.ToResponse())
	}

	return response.Success(c, "Enquiries retrieved successfully", pagination.NewResponse(resp, params, total))
}

// ListByProject lists a project's enquiries (staff running it only)
// @Summary List project enquiries
// @Tags Enquiries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /projects/{id}/enquiries [get]
func (h *EnquiryHandler) ListByProject(c *fiber.Ctx) error {
	viewerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	params := pagination.GetParams(c)
	enqs, total, err := h.enquiryService.ListByProject(c.Context(), projectID, viewerID, params.Offset, params.Limit)
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]*models.EnquiryResponse, 0, len(enqs))
	for _, enq := range enqs {
		resp = append(resp, enq.ToResponse())
	}

	return response.Success(c, "Enquiries retrieved successfully", pagination.NewResponse(resp, params, total))
}

// EditEnquiryRequest represents enquiry edit request body
type EditEnquiryRequest struct {
	Message string `json:"message" validate:"required"`
}

// Edit rewrites an unanswered enquiry (author only)
// @Summary Edit enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enquiry ID"
// @Param body body EditEnquiryRequest true "New message"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enquiries/{id} [put]
func (h *EnquiryHandler) Edit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	enquiryID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry ID")
	}

	var req EditEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	enq, err := h.enquiryService.Edit(c.Context(), enquiryID, userID, req.Message)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Enquiry updated successfully", fiber.Map{
		"enquiry": enq.ToResponse(),
	})
}

// Delete removes an unanswered enquiry (author only)
// @Summary Delete enquiry
// @Tags Enquiries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enquiry ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enquiries/{id} [delete]
func (h *EnquiryHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	enquiryID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry ID")
	}

	if err := h.enquiryService.Delete(c.Context(), enquiryID, userID); err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Enquiry deleted successfully", nil)
}

// ReplyEnquiryRequest represents enquiry reply request body
type ReplyEnquiryRequest struct {
	Response string `json:"response" validate:"required"`
}

// Reply records the one-time staff response to an enquiry
// @Summary Reply to enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enquiry ID"
// @Param body body ReplyEnquiryRequest true "Response text"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enquiries/{id}/reply [post]
func (h *EnquiryHandler) Reply(c *fiber.Ctx) error {
	replierID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	enquiryID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry ID")
	}

	var req ReplyEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	enq, err := h.enquiryService.Reply(c.Context(), enquiryID, replierID, req.Response)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Reply recorded successfully", fiber.Map{
		"enquiry": enq.ToResponse(),
	})
}
