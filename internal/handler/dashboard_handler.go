package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tms/internal/service"
)

// DashboardHandler serves the dashboard views.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats godoc
// @Summary Dashboard counters
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=repository.DashboardCounts}
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	stats, err := h.dashboardService.Stats(c.Request().Context(), claims.Name)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, stats)
}

// MyAssignments godoc
// @Summary Open plan items assigned to the caller
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.ActivityItem}
// @Router /dashboard/my-assignments [get]
func (h *DashboardHandler) MyAssignments(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	items, err := h.dashboardService.MyAssignments(c.Request().Context(), claims.Name)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, items)
}

// RecentActivity godoc
// @Summary Most recently executed plan items
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.ActivityItem}
// @Router /dashboard/recent-activity [get]
func (h *DashboardHandler) RecentActivity(c echo.Context) error {
	items, err := h.dashboardService.RecentActivity(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, items)
}
