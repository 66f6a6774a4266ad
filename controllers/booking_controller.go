package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/config"
	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// BookingController exposes the front-desk booking surface of one site.
type BookingController struct {
	Bookings *services.BookingService
	Sites    *services.SiteService
	Export   *services.ExportService
	Cfg      *config.AppConfig
}

func NewBookingController(bookings *services.BookingService, sites *services.SiteService, export *services.ExportService, cfg *config.AppConfig) *BookingController {
	return &BookingController{Bookings: bookings, Sites: sites, Export: export, Cfg: cfg}
}

func (ctl *BookingController) List(c *gin.Context) {
	bookings, err := ctl.Bookings.ListBookings(middleware.SiteID(c), c.Query("search"), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (ctl *BookingController) Get(c *gin.Context) {
	bookingID, ok := parseUintParam(c, "bookingID")
	if !ok {
		return
	}
	booking, err := ctl.Bookings.GetByID(middleware.SiteID(c), bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": booking})
}

type manualBookingRequest struct {
	RoomTypeID    uint    `json:"room_type_id" binding:"required"`
	RoomUnitID    *uint   `json:"room_unit_id"`
	CheckIn       string  `json:"check_in" binding:"required"`
	CheckOut      string  `json:"check_out" binding:"required"`
	GuestName     string  `json:"guest_name" binding:"required"`
	GuestEmail    string  `json:"guest_email" binding:"omitempty,email"`
	GuestPhone    string  `json:"guest_phone"`
	GuestsCount   int     `json:"guests_count"`
	Status        string  `json:"status" binding:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	DepositAmount float64 `json:"deposit_amount"`
	Notes         string  `json:"notes"`
}

// Create is the staff-side booking form: explicit or first-free unit, caller
// chooses the initial status.
func (ctl *BookingController) Create(c *gin.Context) {
	var req manualBookingRequest
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

	booking, err := ctl.Bookings.CreateManualBooking(services.ManualInput{
		SiteID:        middleware.SiteID(c),
		RoomTypeID:    req.RoomTypeID,
		RoomUnitID:    req.RoomUnitID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		GuestsCount:   req.GuestsCount,
		Status:        req.Status,
		DepositAmount: req.DepositAmount,
		Notes:         req.Notes,
		Actor:         middleware.ActorName(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"booking": booking})
}

type editBookingRequest struct {
	GuestName     *string  `json:"guest_name"`
	GuestEmail    *string  `json:"guest_email" binding:"omitempty,email"`
	GuestPhone    *string  `json:"guest_phone"`
	CheckIn       *string  `json:"check_in"`
	CheckOut      *string  `json:"check_out"`
	RoomTypeID    *uint    `json:"room_type_id"`
	RoomUnitID    *uint    `json:"room_unit_id"`
	ClearUnit     bool     `json:"clear_unit"`
	RoomsBooked   *int     `json:"rooms_booked"`
	GuestsCount   *int     `json:"guests_count"`
	Status        *string  `json:"status" binding:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	DepositAmount *float64 `json:"deposit_amount"`
	Notes         *string  `json:"notes"`
}

// Edit applies a partial update; omitted fields stay as they are.
func (ctl *BookingController) Edit(c *gin.Context) {
	bookingID, ok := parseUintParam(c, "bookingID")
	if !ok {
		return
	}
	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	input := services.EditInput{
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		RoomTypeID:    req.RoomTypeID,
		RoomUnitID:    req.RoomUnitID,
		ClearUnit:     req.ClearUnit,
		RoomsBooked:   req.RoomsBooked,
		GuestsCount:   req.GuestsCount,
		Status:        req.Status,
		DepositAmount: req.DepositAmount,
		Notes:         req.Notes,
		Actor:         middleware.ActorName(c),
	}
	if req.CheckIn != nil {
		d, err := parseDateIn(*req.CheckIn, ctl.Cfg.Location)
		if err != nil {
			bindingError(c, err)
			return
		}
		input.CheckInDate = &d
	}
	if req.CheckOut != nil {
		d, err := parseDateIn(*req.CheckOut, ctl.Cfg.Location)
		if err != nil {
			bindingError(c, err)
			return
		}
		input.CheckOutDate = &d
	}

	booking, err := ctl.Bookings.EditBooking(middleware.SiteID(c), bookingID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": booking})
}

// Transition builds a handler moving bookings into one target status.
func (ctl *BookingController) Transition(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseUintParam(c, "bookingID")
		if !ok {
			return
		}
		booking, err := ctl.Bookings.TransitionStatus(middleware.SiteID(c), bookingID, target, middleware.ActorName(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": booking})
	}
}

func (ctl *BookingController) Delete(c *gin.Context) {
	bookingID, ok := parseUintParam(c, "bookingID")
	if !ok {
		return
	}
	if err := ctl.Bookings.DeleteBooking(middleware.SiteID(c), bookingID, middleware.ActorName(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

type expirePendingRequest struct {
	Hours int `json:"hours"`
}

// ExpirePending cancels stale pending bookings. Without an explicit cutoff
// the site's configured expiration window applies.
func (ctl *BookingController) ExpirePending(c *gin.Context) {
	siteID := middleware.SiteID(c)

	var req expirePendingRequest
	_ = c.ShouldBindJSON(&req)
	hours := req.Hours
	if hours <= 0 {
		site, err := ctl.Sites.GetSettings(siteID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		hours = site.BookingExpirationHours
	}

	expired, err := ctl.Bookings.ExpireStalePending(siteID, hours)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"expired": expired})
}

// ExportXLSX streams the filtered booking list as a spreadsheet download.
func (ctl *BookingController) ExportXLSX(c *gin.Context) {
	buf, err := ctl.Export.BookingsXLSX(middleware.SiteID(c), c.Query("search"), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("bookings_%s.xlsx", ctl.Cfg.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Calendar is the staff view of the day-by-day remaining counts.
func (ctl *BookingController) Calendar(c *gin.Context) {
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

	days, err := ctl.Bookings.CalendarEvents(middleware.SiteID(c), start, end, roomTypeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"days": days})
}

// TapeChart feeds the unit timeline view.
func (ctl *BookingController) TapeChart(c *gin.Context) {
	data, err := ctl.Bookings.TapeChart(middleware.SiteID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, data)
}
