package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/config"
	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// MaintenanceController manages out-of-service blocks on rooms.
type MaintenanceController struct {
	Maintenance *services.MaintenanceService
	Cfg         *config.AppConfig
}

func NewMaintenanceController(maintenance *services.MaintenanceService, cfg *config.AppConfig) *MaintenanceController {
	return &MaintenanceController{Maintenance: maintenance, Cfg: cfg}
}

func (ctl *MaintenanceController) List(c *gin.Context) {
	blocks, err := ctl.Maintenance.ListBlocks(middleware.SiteID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"blocks": blocks})
}

type maintenanceRequest struct {
	RoomTypeID uint   `json:"room_type_id"`
	RoomUnitID *uint  `json:"room_unit_id"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
	QtyBlocked int    `json:"qty_blocked"`
}

func (ctl *MaintenanceController) Create(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	start, err := parseDateIn(req.StartDate, ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	end, err := parseDateIn(req.EndDate, ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}

	block, err := ctl.Maintenance.CreateBlock(services.MaintenanceInput{
		SiteID:     middleware.SiteID(c),
		RoomTypeID: req.RoomTypeID,
		RoomUnitID: req.RoomUnitID,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		QtyBlocked: req.QtyBlocked,
		Actor:      middleware.ActorName(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"block": block})
}

func (ctl *MaintenanceController) Delete(c *gin.Context) {
	blockID, ok := parseUintParam(c, "blockID")
	if !ok {
		return
	}
	if err := ctl.Maintenance.DeleteBlock(middleware.SiteID(c), blockID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
