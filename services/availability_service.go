package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// Remaining reports whether a stay over [checkIn, checkOut) fits and how many
// units of the room type survive every night of the range. Passing a unit
// narrows the check to that single unit (capacity 1). An empty range is
// trivially available at full capacity.
func (s *AvailabilityService) Remaining(siteID uint, roomType *models.RoomType, unit *models.RoomUnit, checkIn, checkOut time.Time) (bool, int, error) {
	total := roomType.TotalQuantity
	if unit != nil {
		total = 1
	}
	if !checkIn.Before(checkOut) {
		return true, total, nil
	}

	bookingQuery := s.DB.
		Where("site_config_id = ? AND room_type_id = ?", siteID, roomType.ID).
		Where("status IN ?", models.OccupyingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if unit != nil {
		bookingQuery = bookingQuery.Where("room_unit_id = ?", unit.ID)
	}

	var bookings []models.Booking
	if err := bookingQuery.Find(&bookings).Error; err != nil {
		return false, 0, fmt.Errorf("failed to load overlapping bookings: %w", err)
	}

	blockQuery := s.DB.
		Where("site_config_id = ? AND room_type_id = ?", siteID, roomType.ID).
		Where("start_date <= ? AND end_date >= ?", dateOf(checkOut), dateOf(checkIn))
	if unit != nil {
		blockQuery = blockQuery.Where("room_unit_id = ?", unit.ID)
	}

	var blocks []models.MaintenanceBlock
	if err := blockQuery.Find(&blocks).Error; err != nil {
		return false, 0, fmt.Errorf("failed to load maintenance blocks: %w", err)
	}

	ok, remaining := minRemaining(total, bookings, blocks, checkIn, checkOut)
	return ok, remaining, nil
}

// Probe answers the date-grain question "does a stay from fromDate to toDate
// fit", optionally narrowed to one unit. Dates are pinned to the hotel's
// wall times before the per-night walk. Returns fit, the tightest night's
// remaining count and the night count.
func (s *AvailabilityService) Probe(siteID, roomTypeID uint, unitID *uint, fromDate, toDate time.Time) (bool, int, int, error) {
	checkIn := atCheckInHour(fromDate)
	checkOut := atCheckOutHour(toDate)
	if !checkIn.Before(checkOut) {
		return false, 0, 0, ErrInvalidDateRange
	}

	var roomType models.RoomType
	err := s.DB.Where("site_config_id = ?", siteID).First(&roomType, roomTypeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, 0, ErrRoomTypeNotFound
		}
		return false, 0, 0, fmt.Errorf("failed to load room type: %w", err)
	}

	var unit *models.RoomUnit
	if unitID != nil {
		var u models.RoomUnit
		err := s.DB.
			Where("room_type_id = ?", roomType.ID).
			First(&u, *unitID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, 0, 0, ErrUnitNotFound
			}
			return false, 0, 0, fmt.Errorf("failed to load room unit: %w", err)
		}
		unit = &u
	}

	ok, remaining, err := s.Remaining(siteID, &roomType, unit, checkIn, checkOut)
	if err != nil {
		return false, 0, 0, err
	}
	return ok, remaining, nightsIn(checkIn, checkOut), nil
}
