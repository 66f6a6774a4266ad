package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// Domain sentinels shared across services. Controllers map these onto HTTP
// status codes; the string form is the wire-level error code.
var (
	ErrInvalidDateRange        = errors.New("invalid_date_range")
	ErrInsufficientInventory   = errors.New("insufficient_inventory")
	ErrSeasonOverlap           = errors.New("season_overlap")
	ErrMaintenanceOverlap      = errors.New("maintenance_overlap")
	ErrRoomTypeNotFound        = errors.New("room_type_not_found")
	ErrBookingNotFound         = errors.New("booking_not_found")
	ErrSiteNotFound            = errors.New("site_not_found")
	ErrUnitNotFound            = errors.New("unit_not_found")
	ErrUserNotFound            = errors.New("user_not_found")
	ErrSeasonNotFound          = errors.New("season_not_found")
	ErrMaintenanceNotFound     = errors.New("maintenance_not_found")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
	ErrRoomHasFutureBookings   = errors.New("room_has_future_bookings")
	ErrDuplicateUsername       = errors.New("duplicate_username")
	ErrDuplicateExtension      = errors.New("duplicate_extension")
	ErrInvalidCredentials      = errors.New("invalid_credentials")
	ErrAccountDisabled         = errors.New("account_disabled")
)

// isDuplicateEntry reports whether err is a MySQL unique-constraint
// violation (error 1062). The pre-insert count checks race with concurrent
// writers; this catches the loser of that race at the constraint itself.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate entry") || strings.Contains(lower, "1062")
}
