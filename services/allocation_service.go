package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// noHistoryGap stands in for the turnover gap of a unit with no prior stay.
// It is large enough that any unit with real history sorts ahead of it, so
// back-to-back turnovers are preferred and fresh units are kept in reserve.
const noHistoryGap = 999999999.0

// AllocationService is always built on the transaction of the booking flow
// that needs it, so it carries no constructor of its own.
type AllocationService struct {
	DB *gorm.DB
}

// pickUnit selects one unit for a stay starting at checkIn. Excluded units
// are skipped; among the rest the unit whose last checkout sits closest
// before the new check-in wins. Ties keep the earliest unit in slice order.
func pickUnit(units []models.RoomUnit, excluded map[uint]bool, lastCheckout map[uint]time.Time, checkIn time.Time) *models.RoomUnit {
	var best *models.RoomUnit
	bestGap := 0.0
	for i := range units {
		u := &units[i]
		if excluded[u.ID] {
			continue
		}
		gap := noHistoryGap
		if lc, ok := lastCheckout[u.ID]; ok {
			gap = checkIn.Sub(lc).Seconds()
		}
		if best == nil || gap < bestGap {
			best = u
			bestGap = gap
		}
	}
	return best
}

// AssignUnits picks count physical units of a room type for [checkIn,
// checkOut). Units already holding an overlapping occupying booking or an
// overlapping maintenance block are out of play. When fewer free units exist
// than requested, the shortfall comes back as nil entries; those bookings
// stay unassigned rather than failing the whole request.
func (s *AllocationService) AssignUnits(roomType *models.RoomType, checkIn, checkOut time.Time, count int) ([]*models.RoomUnit, error) {
	var units []models.RoomUnit
	if err := s.DB.Where("room_type_id = ?", roomType.ID).Order("id ASC").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to load room units: %w", err)
	}

	unitIDs := make([]uint, 0, len(units))
	for i := range units {
		unitIDs = append(unitIDs, units[i].ID)
	}

	excluded := make(map[uint]bool)
	lastCheckout := make(map[uint]time.Time)

	if len(unitIDs) > 0 {
		var conflicts []models.Booking
		err := s.DB.
			Where("room_unit_id IN ?", unitIDs).
			Where("status IN ?", models.OccupyingStatuses).
			Where("check_in < ? AND check_out > ?", checkOut, checkIn).
			Find(&conflicts).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load conflicting bookings: %w", err)
		}
		for i := range conflicts {
			if conflicts[i].RoomUnitID != nil {
				excluded[*conflicts[i].RoomUnitID] = true
			}
		}

		var blocks []models.MaintenanceBlock
		err = s.DB.
			Where("room_unit_id IN ?", unitIDs).
			Where("start_date < ? AND end_date > ?", dateOf(checkOut), dateOf(checkIn)).
			Find(&blocks).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load maintenance blocks: %w", err)
		}
		for i := range blocks {
			if blocks[i].RoomUnitID != nil {
				excluded[*blocks[i].RoomUnitID] = true
			}
		}

		var history []models.Booking
		err = s.DB.
			Where("room_unit_id IN ?", unitIDs).
			Where("status IN ?", models.HistoryStatuses).
			Where("check_out <= ?", checkIn).
			Order("check_out ASC").
			Find(&history).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load unit history: %w", err)
		}
		for i := range history {
			if history[i].RoomUnitID != nil {
				lastCheckout[*history[i].RoomUnitID] = history[i].CheckOut
			}
		}
	}

	picks := make([]*models.RoomUnit, 0, count)
	for n := 0; n < count; n++ {
		u := pickUnit(units, excluded, lastCheckout, checkIn)
		if u == nil {
			picks = append(picks, nil)
			continue
		}
		excluded[u.ID] = true
		picks = append(picks, u)
	}
	return picks, nil
}

// FirstFreeUnit returns the lowest-id unit of a room type with no booking of
// any status overlapping the range. Front-desk manual creation uses this
// test, which counts even cancelled stays as conflicts.
func (s *AllocationService) FirstFreeUnit(roomTypeID uint, checkIn, checkOut time.Time) (*models.RoomUnit, error) {
	var units []models.RoomUnit
	if err := s.DB.Where("room_type_id = ?", roomTypeID).Order("id ASC").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to load room units: %w", err)
	}
	for i := range units {
		var count int64
		err := s.DB.Model(&models.Booking{}).
			Where("room_unit_id = ?", units[i].ID).
			Where("check_in < ? AND check_out > ?", checkOut, checkIn).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check unit conflicts: %w", err)
		}
		if count == 0 {
			return &units[i], nil
		}
	}
	return nil, nil
}
