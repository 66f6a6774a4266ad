package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// SettingsController exposes a site's own configuration: storefront copy,
// contact details, theme and the hero image slider.
type SettingsController struct {
	Sites *services.SiteService
}

func NewSettingsController(sites *services.SiteService) *SettingsController {
	return &SettingsController{Sites: sites}
}

func (ctl *SettingsController) Get(c *gin.Context) {
	site, err := ctl.Sites.GetSettings(middleware.SiteID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"settings": site})
}

type settingsRequest struct {
	HotelName              *string        `json:"hotel_name"`
	Highlights             *string        `json:"highlights"`
	AboutDescription       *string        `json:"about_description"`
	AmenitiesList          datatypes.JSON `json:"amenities_list"`
	Rules                  *string        `json:"rules"`
	ContactEmail           *string        `json:"contact_email" binding:"omitempty,email"`
	ContactPhone           *string        `json:"contact_phone"`
	Address                *string        `json:"address"`
	MapURL                 *string        `json:"map_url"`
	FacebookURL            *string        `json:"facebook_url"`
	InstagramURL           *string        `json:"instagram_url"`
	YoutubeURL             *string        `json:"youtube_url"`
	ThemeID                *string        `json:"theme_id"`
	BookingExpirationHours *int           `json:"booking_expiration_hours" binding:"omitempty,min=1"`
	BookingSuccessMessage  *string        `json:"booking_success_message"`
}

func (ctl *SettingsController) Update(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	site, err := ctl.Sites.UpdateSettings(middleware.SiteID(c), services.SettingsInput{
		HotelName:              req.HotelName,
		Highlights:             req.Highlights,
		AboutDescription:       req.AboutDescription,
		AmenitiesList:          req.AmenitiesList,
		Rules:                  req.Rules,
		ContactEmail:           req.ContactEmail,
		ContactPhone:           req.ContactPhone,
		Address:                req.Address,
		MapURL:                 req.MapURL,
		FacebookURL:            req.FacebookURL,
		InstagramURL:           req.InstagramURL,
		YoutubeURL:             req.YoutubeURL,
		ThemeID:                req.ThemeID,
		BookingExpirationHours: req.BookingExpirationHours,
		BookingSuccessMessage:  req.BookingSuccessMessage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"settings": site})
}

type heroImagesRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,dive,url"`
}

func (ctl *SettingsController) AddHeroImages(c *gin.Context) {
	var req heroImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	images, err := ctl.Sites.AddHeroImages(middleware.SiteID(c), req.URLs, middleware.ActorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"images": images})
}

func (ctl *SettingsController) DeleteHeroImage(c *gin.Context) {
	imageID, ok := parseUintParam(c, "imageID")
	if !ok {
		return
	}
	if err := ctl.Sites.DeleteHeroImage(middleware.SiteID(c), imageID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
