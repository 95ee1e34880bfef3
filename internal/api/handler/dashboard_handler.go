package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/core/ports"
)

type DashboardHandler struct {
	dashboard ports.DashboardService
}

func NewDashboardHandler(dashboard ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns the dashboard statistics.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      503  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.dashboard.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboard(summary))
}
