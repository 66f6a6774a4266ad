package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/config"
	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// RoomController manages a site's room catalogue: types, units, images and
// housekeeping state.
type RoomController struct {
	Rooms        *services.RoomService
	Availability *services.AvailabilityService
	Cfg          *config.AppConfig
}

func NewRoomController(rooms *services.RoomService, availability *services.AvailabilityService, cfg *config.AppConfig) *RoomController {
	return &RoomController{Rooms: rooms, Availability: availability, Cfg: cfg}
}

func (ctl *RoomController) List(c *gin.Context) {
	roomTypes, err := ctl.Rooms.ListRoomTypes(middleware.SiteID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room_types": roomTypes})
}

func (ctl *RoomController) Get(c *gin.Context) {
	roomTypeID, ok := parseUintParam(c, "roomTypeID")
	if !ok {
		return
	}
	roomType, err := ctl.Rooms.GetRoomType(middleware.SiteID(c), roomTypeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room_type": roomType})
}

type roomTypeRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
	TotalQuantity int     `json:"total_quantity" binding:"required,min=1"`
	Capacity      int     `json:"capacity" binding:"omitempty,min=1"`
	CustomLabels  string  `json:"custom_labels"`
}

// splitLabels turns the comma-separated label field into a trimmed list.
func splitLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, strings.TrimSpace(p))
	}
	return labels
}

func (ctl *RoomController) Create(c *gin.Context) {
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	roomType, err := ctl.Rooms.CreateRoomType(services.CreateRoomInput{
		SiteID:        middleware.SiteID(c),
		Name:          req.Name,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		TotalQuantity: req.TotalQuantity,
		Capacity:      req.Capacity,
		CustomLabels:  splitLabels(req.CustomLabels),
		Actor:         middleware.ActorName(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"room_type": roomType})
}

func (ctl *RoomController) Edit(c *gin.Context) {
	roomTypeID, ok := parseUintParam(c, "roomTypeID")
	if !ok {
		return
	}
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	roomType, err := ctl.Rooms.EditRoomType(middleware.SiteID(c), roomTypeID, services.EditRoomInput{
		Name:          req.Name,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		TotalQuantity: req.TotalQuantity,
		Capacity:      req.Capacity,
		CustomLabels:  splitLabels(req.CustomLabels),
		Actor:         middleware.ActorName(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room_type": roomType})
}

func (ctl *RoomController) Delete(c *gin.Context) {
	roomTypeID, ok := parseUintParam(c, "roomTypeID")
	if !ok {
		return
	}
	if err := ctl.Rooms.DeleteRoomType(middleware.SiteID(c), roomTypeID, middleware.ActorName(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// Probe answers "does this stay fit" for one room type, optionally narrowed
// to a single unit via the unit_id query.
func (ctl *RoomController) Probe(c *gin.Context) {
	roomTypeID, ok := parseUintParam(c, "roomTypeID")
	if !ok {
		return
	}

	from, err := parseDateIn(c.Query("from"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	to, err := parseDateIn(c.Query("to"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}

	var unitID *uint
	if raw := c.Query("unit_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_request", "unit_id must be a number")
			return
		}
		id := uint(parsed)
		unitID = &id
	}

	fits, remaining, nights, err := ctl.Availability.Probe(middleware.SiteID(c), roomTypeID, unitID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"available": fits,
		"remaining": remaining,
		"nights":    nights,
	})
}

type roomImagesRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,dive,url"`
}

func (ctl *RoomController) AddImages(c *gin.Context) {
	roomTypeID, ok := parseUintParam(c, "roomTypeID")
	if !ok {
		return
	}
	var req roomImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	images, err := ctl.Rooms.AddRoomImages(middleware.SiteID(c), roomTypeID, req.URLs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"images": images})
}

func (ctl *RoomController) DeleteImage(c *gin.Context) {
	roomTypeID, ok := parseUintParam(c, "roomTypeID")
	if !ok {
		return
	}
	imageID, ok := parseUintParam(c, "imageID")
	if !ok {
		return
	}
	if err := ctl.Rooms.DeleteRoomImage(middleware.SiteID(c), roomTypeID, imageID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

type cleaningStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=clean dirty in_progress"`
}

func (ctl *RoomController) UpdateCleaning(c *gin.Context) {
	unitID, ok := parseUintParam(c, "unitID")
	if !ok {
		return
	}
	var req cleaningStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	unit, err := ctl.Rooms.UpdateCleaningStatus(middleware.SiteID(c), unitID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"unit": unit})
}
