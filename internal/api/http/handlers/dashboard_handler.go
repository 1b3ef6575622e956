package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tickease/tickease/internal/auth"
	"github.com/tickease/tickease/internal/service"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// DashboardHandler serves workload statistics.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats GET /dashboard.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.dashboard.Stats(c.Context(), principal.Policy())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"stats": stats})
}
