package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// DashboardController serves the front-desk landing payload.
type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// Summary returns today's movements, occupancy, revenue figures and the
// recent audit trail in one payload. q narrows the upcoming list by booking
// code or guest name; sort_by=created reorders it by entry time instead of
// arrival.
func (ctl *DashboardController) Summary(c *gin.Context) {
	data, err := ctl.Dashboard.Summary(middleware.SiteID(c), c.Query("sort_by"), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, data)
}
