package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

type errorMapping struct {
	status  int
	message string
}

var serviceErrors = map[error]errorMapping{
	services.ErrInvalidDateRange:        {http.StatusBadRequest, "check-out must be after check-in"},
	services.ErrInsufficientInventory:   {http.StatusConflict, "not enough rooms left for these dates"},
	services.ErrSeasonOverlap:           {http.StatusConflict, "a seasonal rate already covers part of this range"},
	services.ErrMaintenanceOverlap:      {http.StatusConflict, "a maintenance block already covers part of this range"},
	services.ErrRoomTypeNotFound:        {http.StatusNotFound, "room type not found"},
	services.ErrBookingNotFound:         {http.StatusNotFound, "booking not found"},
	services.ErrSiteNotFound:            {http.StatusNotFound, "site not found"},
	services.ErrUnitNotFound:            {http.StatusNotFound, "room unit not found"},
	services.ErrUserNotFound:            {http.StatusNotFound, "user not found"},
	services.ErrSeasonNotFound:          {http.StatusNotFound, "seasonal rate not found"},
	services.ErrMaintenanceNotFound:     {http.StatusNotFound, "maintenance block not found"},
	services.ErrInvalidStatusTransition: {http.StatusConflict, "this status change is not allowed"},
	services.ErrRoomHasFutureBookings:   {http.StatusConflict, "room still has current or future bookings"},
	services.ErrDuplicateUsername:       {http.StatusConflict, "username already taken"},
	services.ErrDuplicateExtension:      {http.StatusConflict, "extension already taken"},
	services.ErrInvalidCredentials:      {http.StatusUnauthorized, "wrong username or password"},
	services.ErrAccountDisabled:         {http.StatusForbidden, "this account's site is deactivated"},
}

// respondServiceError maps a domain sentinel onto its HTTP status and wire
// code. Anything unmapped is an internal failure: logged through the request
// error list and answered opaquely.
func respondServiceError(c *gin.Context, err error) {
	for sentinel, m := range serviceErrors {
		if errors.Is(err, sentinel) {
			utils.JSONError(c, m.status, sentinel.Error(), m.message)
			return
		}
	}
	_ = c.Error(err)
	utils.JSONError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
}

func bindingError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid_request", err.Error())
}

// parseDateIn reads a YYYY-MM-DD value in the hotel's timezone.
func parseDateIn(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, loc)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
