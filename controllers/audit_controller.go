package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// AuditController exposes the per-site activity trail.
type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

func (ctl *AuditController) Tail(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid_request", "limit must be a positive number")
			return
		}
		limit = parsed
	}
	logs, err := ctl.Audit.Tail(middleware.SiteID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"logs": logs})
}
