package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

type PricingService struct {
	DB *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{DB: db}
}

// Quote prices a stay over [checkIn, checkOut) for unitCount units of one
// room type. Each night is charged base price times that night's seasonal
// multiplier; the per-unit sum is multiplied by the unit count at the end.
// Returns the total and the number of nights charged.
func (s *PricingService) Quote(siteID, roomTypeID uint, checkIn, checkOut time.Time, unitCount int) (float64, int, error) {
	var roomType models.RoomType
	if err := s.DB.Where("site_config_id = ?", siteID).First(&roomType, roomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrRoomTypeNotFound
		}
		return 0, 0, fmt.Errorf("failed to load room type: %w", err)
	}

	rates, err := s.ratesTouching(siteID, roomTypeID, checkIn, checkOut)
	if err != nil {
		return 0, 0, err
	}

	total := sumNightly(roomType.PricePerNight, rates, roomTypeID, checkIn, checkOut)
	return total * float64(unitCount), nightsIn(checkIn, checkOut), nil
}

// QuoteForRoomType is the same calculation for a room type row the caller
// already holds, skipping the lookup. Used inside booking transactions where
// the row is locked.
func (s *PricingService) QuoteForRoomType(roomType *models.RoomType, checkIn, checkOut time.Time, unitCount int) (float64, int, error) {
	rates, err := s.ratesTouching(roomType.SiteConfigID, roomType.ID, checkIn, checkOut)
	if err != nil {
		return 0, 0, err
	}
	total := sumNightly(roomType.PricePerNight, rates, roomType.ID, checkIn, checkOut)
	return total * float64(unitCount), nightsIn(checkIn, checkOut), nil
}

// ratesTouching loads the seasonal rates whose date range can reach any
// night of the stay: rows scoped to the room type plus tenant-wide wildcard
// rows. Ordered by id so first-match resolution is stable.
func (s *PricingService) ratesTouching(siteID, roomTypeID uint, checkIn, checkOut time.Time) ([]models.SeasonalRate, error) {
	var rates []models.SeasonalRate
	err := s.DB.
		Where("site_config_id = ?", siteID).
		Where("room_type_id = ? OR room_type_id IS NULL", roomTypeID).
		Where("start_date <= ? AND end_date >= ?", dateOf(checkOut), dateOf(checkIn)).
		Order("id ASC").
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load seasonal rates: %w", err)
	}
	return rates, nil
}
