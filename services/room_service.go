package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// RoomService manages room types, their physical units and their image
// galleries.
type RoomService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Now    func() time.Time
}

func NewRoomService(db *gorm.DB, logger *zap.Logger, now func() time.Time) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{DB: db, Logger: logger, Now: now}
}

func (s *RoomService) ListRoomTypes(siteID uint) ([]models.RoomType, error) {
	var roomTypes []models.RoomType
	err := s.DB.
		Preload("Units").
		Preload("Images").
		Where("site_config_id = ?", siteID).
		Order("id ASC").
		Find(&roomTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return roomTypes, nil
}

func (s *RoomService) GetRoomType(siteID, roomTypeID uint) (*models.RoomType, error) {
	var roomType models.RoomType
	err := s.DB.
		Preload("Units").
		Preload("Images").
		Where("site_config_id = ?", siteID).
		First(&roomType, roomTypeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to load room type: %w", err)
	}
	return &roomType, nil
}

// GetUnit loads a unit and verifies it belongs to the site through its room
// type, so one tenant can never address another tenant's unit by id.
func (s *RoomService) GetUnit(siteID, unitID uint) (*models.RoomUnit, error) {
	var unit models.RoomUnit
	err := s.DB.
		Joins("JOIN room_types ON room_types.id = room_units.room_type_id").
		Where("room_types.site_config_id = ?", siteID).
		First(&unit, unitID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to load room unit: %w", err)
	}
	return &unit, nil
}

// RoomSearchResult is one public search hit: the room type plus the quoted
// total for the stay and how many units survive the whole range. Sold-out
// types stay in the list with AvailableNow zero.
type RoomSearchResult struct {
	models.RoomType
	DynamicTotal float64 `json:"dynamic_total"`
	AvailableNow int     `json:"available_now"`
	Nights       int     `json:"nights"`
}

// SearchRoomTypes quotes every room type of a site that can hold the party
// size over the stay. Dates come in at day grain and are pinned to the
// 14:00 / 11:00 wall times; types with smaller capacity are skipped.
func (s *RoomService) SearchRoomTypes(siteID uint, checkInDate, checkOutDate time.Time, guests int) ([]RoomSearchResult, error) {
	checkIn := atCheckInHour(checkInDate)
	checkOut := atCheckOutHour(checkOutDate)
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}

	roomTypes, err := s.ListRoomTypes(siteID)
	if err != nil {
		return nil, err
	}

	pricing := &PricingService{DB: s.DB}
	availability := &AvailabilityService{DB: s.DB}

	results := []RoomSearchResult{}
	for i := range roomTypes {
		rt := &roomTypes[i]
		if rt.Capacity < guests {
			continue
		}
		total, nights, err := pricing.QuoteForRoomType(rt, checkIn, checkOut, 1)
		if err != nil {
			return nil, err
		}
		_, remaining, err := availability.Remaining(siteID, rt, nil, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		results = append(results, RoomSearchResult{
			RoomType:     *rt,
			DynamicTotal: total,
			AvailableNow: remaining,
			Nights:       nights,
		})
	}
	return results, nil
}

// CreateRoomInput describes a new room type. CustomLabels name the units in
// order; missing entries fall back to "Name #N".
type CreateRoomInput struct {
	SiteID        uint
	Name          string
	Description   string
	PricePerNight float64
	TotalQuantity int
	Capacity      int
	CustomLabels  []string
	Actor         string
}

func unitLabelFor(name string, labels []string, idx int) string {
	if idx < len(labels) {
		if l := strings.TrimSpace(labels[idx]); l != "" {
			return l
		}
	}
	return fmt.Sprintf("%s #%d", name, idx+1)
}

func (s *RoomService) CreateRoomType(in CreateRoomInput) (*models.RoomType, error) {
	if in.TotalQuantity < 1 {
		in.TotalQuantity = 1
	}
	if in.Capacity < 1 {
		in.Capacity = 2
	}

	var roomType models.RoomType
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		roomType = models.RoomType{
			SiteConfigID:  in.SiteID,
			Name:          in.Name,
			Description:   in.Description,
			PricePerNight: in.PricePerNight,
			TotalQuantity: in.TotalQuantity,
			Capacity:      in.Capacity,
		}
		if err := tx.Create(&roomType).Error; err != nil {
			return fmt.Errorf("failed to create room type: %w", err)
		}

		for i := 0; i < in.TotalQuantity; i++ {
			unit := models.RoomUnit{
				RoomTypeID: roomType.ID,
				Label:      unitLabelFor(in.Name, in.CustomLabels, i),
			}
			if err := tx.Create(&unit).Error; err != nil {
				return fmt.Errorf("failed to create room unit: %w", err)
			}
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		detail := fmt.Sprintf("Created with %d units", in.TotalQuantity)
		return audit.Log(in.SiteID, in.Actor, "Create Room", in.Name, detail)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRoomType(in.SiteID, roomType.ID)
}

// EditRoomInput carries a full room type update. The unit list is reconciled
// against the new quantity and labels.
type EditRoomInput struct {
	Name          string
	Description   string
	PricePerNight float64
	TotalQuantity int
	Capacity      int
	CustomLabels  []string
	Actor         string
}

// EditRoomType updates the room type and reconciles its units in id order:
// the first TotalQuantity units are relabelled, missing ones are created,
// excess ones are removed. Future non-cancelled bookings on a removed unit
// are unassigned rather than lost, with an audit entry each.
func (s *RoomService) EditRoomType(siteID, roomTypeID uint, in EditRoomInput) (*models.RoomType, error) {
	if in.TotalQuantity < 1 {
		in.TotalQuantity = 1
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var roomType models.RoomType
		err := tx.Where("site_config_id = ?", siteID).First(&roomType, roomTypeID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("failed to load room type: %w", err)
		}
		if in.Capacity < 1 {
			in.Capacity = roomType.Capacity
		}

		updates := map[string]interface{}{
			"name":            in.Name,
			"description":     in.Description,
			"price_per_night": in.PricePerNight,
			"total_quantity":  in.TotalQuantity,
			"capacity":        in.Capacity,
		}
		if err := tx.Model(&roomType).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update room type: %w", err)
		}

		var units []models.RoomUnit
		if err := tx.Where("room_type_id = ?", roomType.ID).Order("id ASC").Find(&units).Error; err != nil {
			return fmt.Errorf("failed to load room units: %w", err)
		}

		for i := 0; i < len(units) && i < in.TotalQuantity; i++ {
			label := unitLabelFor(in.Name, in.CustomLabels, i)
			if units[i].Label == label {
				continue
			}
			if err := tx.Model(&units[i]).Update("label", label).Error; err != nil {
				return fmt.Errorf("failed to relabel room unit: %w", err)
			}
		}

		for i := len(units); i < in.TotalQuantity; i++ {
			unit := models.RoomUnit{
				RoomTypeID: roomType.ID,
				Label:      unitLabelFor(in.Name, in.CustomLabels, i),
			}
			if err := tx.Create(&unit).Error; err != nil {
				return fmt.Errorf("failed to create room unit: %w", err)
			}
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		for i := in.TotalQuantity; i < len(units); i++ {
			if err := s.removeUnit(tx, audit, siteID, &units[i], in.Actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRoomType(siteID, roomTypeID)
}

// removeUnit deletes one unit, first unassigning its future non-cancelled
// bookings so guests keep their reservation at type level. Unit-scoped
// maintenance blocks go with the unit.
func (s *RoomService) removeUnit(tx *gorm.DB, audit *AuditService, siteID uint, unit *models.RoomUnit, actor string) error {
	var affected []models.Booking
	err := tx.
		Where("room_unit_id = ?", unit.ID).
		Where("status <> ?", models.BookingStatusCancelled).
		Where("check_out > ?", s.Now()).
		Find(&affected).Error
	if err != nil {
		return fmt.Errorf("failed to load bookings on removed unit: %w", err)
	}
	for i := range affected {
		b := &affected[i]
		if err := tx.Model(b).Update("room_unit_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign booking: %w", err)
		}
		detail := fmt.Sprintf("Unit %s removed; booking unassigned", unit.Label)
		if err := audit.Log(siteID, actor, "Update Booking", b.BookingCode, detail); err != nil {
			return err
		}
	}

	if err := tx.Where("room_unit_id = ?", unit.ID).Delete(&models.MaintenanceBlock{}).Error; err != nil {
		return fmt.Errorf("failed to delete unit maintenance blocks: %w", err)
	}
	if err := tx.Model(&models.Booking{}).Where("room_unit_id = ?", unit.ID).Update("room_unit_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach past bookings: %w", err)
	}
	if err := tx.Delete(unit).Error; err != nil {
		return fmt.Errorf("failed to delete room unit: %w", err)
	}
	return nil
}

// DeleteRoomType removes a room type and everything hanging off it. Refused
// while any current or future booking still occupies the type; history is
// deleted with the room.
func (s *RoomService) DeleteRoomType(siteID, roomTypeID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var roomType models.RoomType
		err := tx.Where("site_config_id = ?", siteID).First(&roomType, roomTypeID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("failed to load room type: %w", err)
		}

		var active int64
		err = tx.Model(&models.Booking{}).
			Where("room_type_id = ?", roomType.ID).
			Where("check_out >= ?", dateOf(s.Now())).
			Where("status IN ?", models.OccupyingStatuses).
			Count(&active).Error
		if err != nil {
			return fmt.Errorf("failed to count active bookings: %w", err)
		}
		if active > 0 {
			return ErrRoomHasFutureBookings
		}

		if err := tx.Where("room_type_id = ?", roomType.ID).Delete(&models.MaintenanceBlock{}).Error; err != nil {
			return fmt.Errorf("failed to delete maintenance blocks: %w", err)
		}
		if err := tx.Where("room_type_id = ?", roomType.ID).Delete(&models.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking history: %w", err)
		}
		if err := tx.Where("room_type_id = ?", roomType.ID).Delete(&models.RoomUnit{}).Error; err != nil {
			return fmt.Errorf("failed to delete room units: %w", err)
		}
		if err := tx.Where("room_type_id = ?", roomType.ID).Delete(&models.RoomImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete room images: %w", err)
		}
		if err := tx.Delete(&roomType).Error; err != nil {
			return fmt.Errorf("failed to delete room type: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(siteID, actor, "Delete Room", roomType.Name, "Room and assets deleted")
	})
}

// UpdateCleaningStatus flips a unit's housekeeping state.
func (s *RoomService) UpdateCleaningStatus(siteID, unitID uint, status string) (*models.RoomUnit, error) {
	unit, err := s.GetUnit(siteID, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(unit).Update("cleaning_status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update cleaning status: %w", err)
	}
	return unit, nil
}

// AddRoomImages registers gallery URLs for a room type.
func (s *RoomService) AddRoomImages(siteID, roomTypeID uint, urls []string) ([]models.RoomImage, error) {
	roomType, err := s.GetRoomType(siteID, roomTypeID)
	if err != nil {
		return nil, err
	}

	images := make([]models.RoomImage, 0, len(urls))
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, url := range urls {
			img := models.RoomImage{RoomTypeID: roomType.ID, URL: url}
			if err := tx.Create(&img).Error; err != nil {
				return fmt.Errorf("failed to create room image: %w", err)
			}
			images = append(images, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (s *RoomService) DeleteRoomImage(siteID, roomTypeID, imageID uint) error {
	if _, err := s.GetRoomType(siteID, roomTypeID); err != nil {
		return err
	}
	res := s.DB.Where("room_type_id = ?", roomTypeID).Delete(&models.RoomImage{}, imageID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete room image: %w", res.Error)
	}
	return nil
}
