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

// ProjectHandler handles project catalog endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Create creates a new project (manager only)
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProjectInput true "Project data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	project, err := h.projectService.Create(c.Context(), managerID, &input)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, "Project created successfully", fiber.Map{
		"project": project.ToResponse(),
	})
}

// List lists projects visible to the caller
// @Summary List projects
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param neighbourhood query string false "Filter by neighbourhood"
// @Param flat_type query string false "Filter by flat type with units left"
// @Param managed query bool false "Managers: only own projects"
// @Success 200 {object} response.Response
// @Router /projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	managed, _ := strconv.ParseBool(c.Query("managed", "false"))

	input := &services.ProjectListInput{
		Page:          params.Page,
		Limit:         params.Limit,
		Neighbourhood: c.Query("neighbourhood"),
		FlatType:      domain.FlatType(c.Query("flat_type")),
		ManagedOnly:   managed,
	}

	projects, total, err := h.projectService.ListForUser(c.Context(), userID, input)
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]*models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, p.ToResponse())
	}

	return response.Success(c, "Projects retrieved successfully", pagination.NewResponse(resp, params, total))
}

// Get returns one project, subject to the caller's access
// @Summary Get project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	project, err := h.projectService.GetForUser(c.Context(), projectID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Project retrieved successfully", fiber.Map{
		"project": project.ToResponse(),
	})
}

// Update edits a project the manager owns
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param body body services.UpdateProjectInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var input services.UpdateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	project, err := h.projectService.Update(c.Context(), projectID, managerID, &input)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Project updated successfully", fiber.Map{
		"project": project.ToResponse(),
	})
}

// Delete removes a project the manager owns
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	if err := h.projectService.Delete(c.Context(), projectID, managerID); err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Project deleted successfully", nil)
}

// VisibilityRequest represents visibility toggle request body
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// SetVisibility toggles a project on or off the public listing
// @Summary Toggle project visibility
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param body body VisibilityRequest true "Visibility flag"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /projects/{id}/visibility [patch]
func (h *ProjectHandler) SetVisibility(c *fiber.Ctx) error {
	managerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var req VisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	project, err := h.projectService.SetVisibility(c.Context(), projectID, managerID, req.Visible)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Project visibility updated", fiber.Map{
		"project": project.ToResponse(),
	})
}
