package handlers

import (
	"time"

	"bto-flathub/internal/config"
	"bto-flathub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root returns basic service info
// @Summary Service info
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "BTO FlatHub API", fiber.Map{
		"service": "bto-flathub",
		"version": "1.0.0",
	})
}

// APIInfo returns API group info
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return response.Success(c, "BTO FlatHub API v1", fiber.Map{
		"docs": "/swagger/index.html",
	})
}

// HealthCheck returns service health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
	}

	return response.Success(c, "OK", fiber.Map{
		"status":   "healthy",
		"database": dbStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}
