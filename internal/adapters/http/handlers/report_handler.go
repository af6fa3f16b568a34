package handlers

import (
	"strconv"

	"bto-flathub/internal/core/domain"
	"bto-flathub/internal/core/services"
	"bto-flathub/internal/pkg/pagination"
	"bto-flathub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Bookings generates the booked-applications report (manager only)
// @Summary Booking report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param flat_type query string false "Filter by flat type"
// @Param project query string false "Filter by project name"
// @Param marital_status query string false "Filter by marital status"
// @Param min_age query int false "Minimum applicant age"
// @Param max_age query int false "Maximum applicant age"
// @Success 200 {object} response.Response
// @Router /reports/bookings [get]
func (h *ReportHandler) Bookings(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.BookingReportInput{
		Page:          params.Page,
		Limit:         params.Limit,
		FlatType:      domain.FlatType(c.Query("flat_type")),
		ProjectName:   c.Query("project"),
		MaritalStatus: domain.MaritalStatus(c.Query("marital_status")),
	}

	if v := c.Query("min_age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return response.BadRequest(c, "Invalid min_age value")
		}
		input.MinAge = &age
	}
	if v := c.Query("max_age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return response.BadRequest(c, "Invalid max_age value")
		}
		input.MaxAge = &age
	}

	rows, total, err := h.reportService.Bookings(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate report")
	}

	return response.Success(c, "Report generated successfully", pagination.NewResponse(rows, params, total))
}
