package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/models"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// OwnerController is the platform console: provisioning tenant sites,
// toggling them, resetting tenant credentials and watching guest traffic.
// Every route sits behind the owner gate.
type OwnerController struct {
	Sites    *services.SiteService
	Visitors *services.VisitorService
}

func NewOwnerController(sites *services.SiteService, visitors *services.VisitorService) *OwnerController {
	return &OwnerController{Sites: sites, Visitors: visitors}
}

func (ctl *OwnerController) ListSites(c *gin.Context) {
	sites, err := ctl.Sites.ListSites()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"sites": sites})
}

type createSiteRequest struct {
	Extension     string `json:"extension" binding:"required,alphanum,min=2,max=30"`
	HotelName     string `json:"hotel_name" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required,min=6"`
	StaffPassword string `json:"staff_password" binding:"required,min=6"`
}

func (ctl *OwnerController) CreateSite(c *gin.Context) {
	var req createSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	site, err := ctl.Sites.CreateSite(services.CreateSiteInput{
		Extension:     req.Extension,
		HotelName:     req.HotelName,
		AdminPassword: req.AdminPassword,
		StaffPassword: req.StaffPassword,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"site": site})
}

type patchSiteRequest struct {
	HotelName *string `json:"hotel_name"`
	IsActive  *bool   `json:"is_active"`
	ThemeID   *string `json:"theme_id"`
}

func (ctl *OwnerController) PatchSite(c *gin.Context) {
	siteID, ok := parseUintParam(c, "siteID")
	if !ok {
		return
	}
	var req patchSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	site, err := ctl.Sites.PatchSite(c.Request.Context(), siteID, services.PatchSiteInput{
		HotelName: req.HotelName,
		IsActive:  req.IsActive,
		ThemeID:   req.ThemeID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"site": site})
}

func (ctl *OwnerController) DeleteSite(c *gin.Context) {
	siteID, ok := parseUintParam(c, "siteID")
	if !ok {
		return
	}
	if err := ctl.Sites.DeleteSite(c.Request.Context(), siteID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// ResetPasswords sets both conventional tenant accounts back to the
// well-known reset value.
func (ctl *OwnerController) ResetPasswords(c *gin.Context) {
	siteID, ok := parseUintParam(c, "siteID")
	if !ok {
		return
	}
	for _, role := range []string{models.RoleAdmin, models.RoleStaff} {
		if err := ctl.Sites.ResetPassword(siteID, role); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"reset": true})
}

func (ctl *OwnerController) ListVisitors(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid_request", "limit must be a positive number")
			return
		}
		limit = parsed
	}
	var siteID *uint
	if raw := c.Query("site_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_request", "site_id must be a number")
			return
		}
		id := uint(parsed)
		siteID = &id
	}
	visitors, err := ctl.Visitors.ListRecent(siteID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"visitors": visitors})
}
