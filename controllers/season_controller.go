package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/config"
	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// SeasonController manages the seasonal rate calendar of a site.
type SeasonController struct {
	Seasons *services.SeasonService
	Cfg     *config.AppConfig
}

func NewSeasonController(seasons *services.SeasonService, cfg *config.AppConfig) *SeasonController {
	return &SeasonController{Seasons: seasons, Cfg: cfg}
}

func (ctl *SeasonController) List(c *gin.Context) {
	rates, err := ctl.Seasons.ListSeasons(middleware.SiteID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"seasons": rates})
}

type seasonRequest struct {
	Name       string  `json:"name" binding:"required"`
	RoomTypeID *uint   `json:"room_type_id"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	Multiplier float64 `json:"multiplier" binding:"required,gt=0"`
}

func (ctl *SeasonController) input(c *gin.Context, req seasonRequest) (services.SeasonInput, bool) {
	start, err := parseDateIn(req.StartDate, ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return services.SeasonInput{}, false
	}
	end, err := parseDateIn(req.EndDate, ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return services.SeasonInput{}, false
	}
	return services.SeasonInput{
		SiteID:     middleware.SiteID(c),
		RoomTypeID: req.RoomTypeID,
		Name:       req.Name,
		StartDate:  start,
		EndDate:    end,
		Multiplier: req.Multiplier,
		Actor:      middleware.ActorName(c),
	}, true
}

func (ctl *SeasonController) Create(c *gin.Context) {
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	in, ok := ctl.input(c, req)
	if !ok {
		return
	}
	rate, err := ctl.Seasons.CreateSeason(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"season": rate})
}

func (ctl *SeasonController) Update(c *gin.Context) {
	rateID, ok := parseUintParam(c, "seasonID")
	if !ok {
		return
	}
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	in, ok := ctl.input(c, req)
	if !ok {
		return
	}
	rate, err := ctl.Seasons.UpdateSeason(middleware.SiteID(c), rateID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"season": rate})
}

func (ctl *SeasonController) Delete(c *gin.Context) {
	rateID, ok := parseUintParam(c, "seasonID")
	if !ok {
		return
	}
	if err := ctl.Seasons.DeleteSeason(middleware.SiteID(c), rateID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
