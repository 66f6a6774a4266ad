package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomdesk-backend/config"
	"roomdesk-backend/middleware"
	"roomdesk-backend/models"
	"roomdesk-backend/queue"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// PublicController serves the guest-facing endpoints under one site
// extension: the storefront payload, availability search, price quotes, the
// day calendar, booking confirmation and booking lookup.
type PublicController struct {
	Rooms     *services.RoomService
	Bookings  *services.BookingService
	Pricing   *services.PricingService
	Publisher *queue.Publisher
	Cfg       *config.AppConfig
	Logger    *zap.Logger
}

func NewPublicController(rooms *services.RoomService, bookings *services.BookingService, pricing *services.PricingService, publisher *queue.Publisher, cfg *config.AppConfig, logger *zap.Logger) *PublicController {
	return &PublicController{
		Rooms:     rooms,
		Bookings:  bookings,
		Pricing:   pricing,
		Publisher: publisher,
		Cfg:       cfg,
		Logger:    logger,
	}
}

func (ctl *PublicController) site(c *gin.Context) (*models.SiteConfig, bool) {
	site, ok := middleware.PublicSite(c)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "site_not_found", "no site under this address")
	}
	return site, ok
}

// Home returns the storefront payload: site settings, hero slider and the
// room catalogue.
func (ctl *PublicController) Home(c *gin.Context) {
	site, ok := ctl.site(c)
	if !ok {
		return
	}
	rooms, err := ctl.Rooms.ListRoomTypes(site.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"site":        site,
		"hero_images": site.HeroImages,
		"room_types":  rooms,
	})
}

// Search quotes all room types that fit the stay and party size.
func (ctl *PublicController) Search(c *gin.Context) {
	site, ok := ctl.site(c)
	if !ok {
		return
	}
	checkIn, err := parseDateIn(c.Query("check_in"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	checkOut, err := parseDateIn(c.Query("check_out"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	guests, _ := strconv.Atoi(c.DefaultQuery("guests", "1"))
	if guests < 1 {
		guests = 1
	}

	results, err := ctl.Rooms.SearchRoomTypes(site.ID, checkIn, checkOut, guests)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"results": results})
}

// Quote prices a stay without creating anything.
func (ctl *PublicController) Quote(c *gin.Context) {
	site, ok := ctl.site(c)
	if !ok {
		return
	}
	roomTypeID, err := strconv.ParseUint(c.Query("room_type_id"), 10, 64)
	if err != nil || roomTypeID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "room_type_id must be a positive integer")
		return
	}
	checkIn, err := parseDateIn(c.Query("check_in"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	checkOut, err := parseDateIn(c.Query("check_out"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	if !checkIn.Before(checkOut) {
		respondServiceError(c, services.ErrInvalidDateRange)
		return
	}
	rooms, _ := strconv.Atoi(c.DefaultQuery("rooms", "1"))
	if rooms < 1 {
		rooms = 1
	}

	total, nights, err := ctl.Pricing.Quote(site.ID, uint(roomTypeID), checkIn, checkOut, rooms)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"total": total, "nights": nights})
}

// Calendar returns the public day-by-day remaining counts. Ranges longer
// than a year are rejected.
func (ctl *PublicController) Calendar(c *gin.Context) {
	site, ok := ctl.site(c)
	if !ok {
		return
	}
	start, err := parseDateIn(c.Query("start"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	end, err := parseDateIn(c.Query("end"), ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	if !start.Before(end) || end.After(start.AddDate(1, 0, 0)) {
		respondServiceError(c, services.ErrInvalidDateRange)
		return
	}

	var roomTypeID *uint
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid_request", "room_type_id must be a positive integer")
			return
		}
		u := uint(id)
		roomTypeID = &u
	}

	days, err := ctl.Bookings.CalendarEvents(site.ID, start, end, roomTypeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"days": days})
}

type confirmBookingRequest struct {
	RoomTypeID  uint   `json:"room_type_id" binding:"required"`
	CheckIn     string `json:"check_in" binding:"required"`
	CheckOut    string `json:"check_out" binding:"required"`
	GuestName   string `json:"guest_name" binding:"required"`
	GuestEmail  string `json:"guest_email" binding:"omitempty,email"`
	GuestPhone  string `json:"guest_phone"`
	RoomsNeeded int    `json:"rooms_needed"`
	GuestsCount int    `json:"guests_count"`
}

// ConfirmBooking creates the pending booking rows for a guest request and
// fans the event out to the notification queue after commit.
func (ctl *PublicController) ConfirmBooking(c *gin.Context) {
	site, ok := ctl.site(c)
	if !ok {
		return
	}
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	checkIn, err := parseDateIn(req.CheckIn, ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}
	checkOut, err := parseDateIn(req.CheckOut, ctl.Cfg.Location)
	if err != nil {
		bindingError(c, err)
		return
	}

	result, err := ctl.Bookings.ConfirmBooking(services.ConfirmInput{
		SiteID:       site.ID,
		RoomTypeID:   req.RoomTypeID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
		RoomsNeeded:  req.RoomsNeeded,
		GuestsCount:  req.GuestsCount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	event := queue.BookingConfirmedEvent{
		SiteID:       site.ID,
		Extension:    site.Extension,
		BookingCodes: result.BookingCodes,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		RoomTypeID:   req.RoomTypeID,
		CheckIn:      result.CheckIn,
		CheckOut:     result.CheckOut,
		RoomsBooked:  len(result.Bookings),
		TotalPrice:   result.TotalPrice,
		CreatedAt:    ctl.Cfg.Now(),
	}
	if err := ctl.Publisher.Publish(c.Request.Context(), event); err != nil {
		ctl.Logger.Warn("failed to publish booking event", zap.Error(err))
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"booking_codes": result.BookingCodes,
		"bookings":      result.Bookings,
		"total_price":   result.TotalPrice,
		"nights":        result.Nights,
		"message":       site.BookingSuccessMessage,
	})
}

// LookupBooking lets a guest retrieve one booking by its code.
func (ctl *PublicController) LookupBooking(c *gin.Context) {
	site, ok := ctl.site(c)
	if !ok {
		return
	}
	booking, err := ctl.Bookings.GetByCode(site.ID, c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": booking})
}
