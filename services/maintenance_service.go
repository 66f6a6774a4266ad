package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// MaintenanceService takes inventory out of service for date ranges, either
// one unit at a time or a quantity at room type level.
type MaintenanceService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewMaintenanceService(db *gorm.DB, now func() time.Time) *MaintenanceService {
	if now == nil {
		now = time.Now
	}
	return &MaintenanceService{DB: db, Now: now}
}

func (s *MaintenanceService) ListBlocks(siteID uint) ([]models.MaintenanceBlock, error) {
	var blocks []models.MaintenanceBlock
	err := s.DB.
		Preload("RoomUnit").
		Where("site_config_id = ?", siteID).
		Order("start_date DESC, id DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance blocks: %w", err)
	}
	return blocks, nil
}

// MaintenanceInput describes a block. With RoomUnitID set the block covers
// that single unit and the room type is derived; otherwise RoomTypeID and
// QtyBlocked describe a type-level reduction.
type MaintenanceInput struct {
	SiteID     uint
	RoomTypeID uint
	RoomUnitID *uint
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	QtyBlocked int
	Actor      string
}

// CreateBlock validates the range and rejects a second block overlapping the
// same scope, then records the block with an audit entry.
func (s *MaintenanceService) CreateBlock(in MaintenanceInput) (*models.MaintenanceBlock, error) {
	start := dateOf(in.StartDate)
	end := dateOf(in.EndDate)
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}

	var block models.MaintenanceBlock
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var action, target string

		if in.RoomUnitID != nil {
			var unit models.RoomUnit
			err := tx.
				Joins("JOIN room_types ON room_types.id = room_units.room_type_id").
				Where("room_types.site_config_id = ?", in.SiteID).
				First(&unit, *in.RoomUnitID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnitNotFound
				}
				return fmt.Errorf("failed to load room unit: %w", err)
			}
			in.RoomTypeID = unit.RoomTypeID
			in.QtyBlocked = 1
			action, target = "Block Unit", unit.Label
		} else {
			var count int64
			err := tx.Model(&models.RoomType{}).
				Where("site_config_id = ? AND id = ?", in.SiteID, in.RoomTypeID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("failed to check room type: %w", err)
			}
			if count == 0 {
				return ErrRoomTypeNotFound
			}
			if in.QtyBlocked < 1 {
				in.QtyBlocked = 1
			}
			var roomType models.RoomType
			if err := tx.First(&roomType, in.RoomTypeID).Error; err != nil {
				return fmt.Errorf("failed to load room type: %w", err)
			}
			action, target = "Block Rooms", roomType.Name
		}

		overlapQuery := tx.Model(&models.MaintenanceBlock{}).
			Where("site_config_id = ?", in.SiteID).
			Where("start_date < ? AND end_date > ?", end, start)
		if in.RoomUnitID != nil {
			overlapQuery = overlapQuery.Where("room_unit_id = ?", *in.RoomUnitID)
		} else {
			overlapQuery = overlapQuery.Where("room_type_id = ? AND room_unit_id IS NULL", in.RoomTypeID)
		}
		var overlapping int64
		if err := overlapQuery.Count(&overlapping).Error; err != nil {
			return fmt.Errorf("failed to check maintenance overlap: %w", err)
		}
		if overlapping > 0 {
			return ErrMaintenanceOverlap
		}

		block = models.MaintenanceBlock{
			SiteConfigID: in.SiteID,
			RoomTypeID:   in.RoomTypeID,
			RoomUnitID:   in.RoomUnitID,
			StartDate:    start,
			EndDate:      end,
			Reason:       in.Reason,
			QtyBlocked:   in.QtyBlocked,
		}
		if err := tx.Create(&block).Error; err != nil {
			return fmt.Errorf("failed to create maintenance block: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(in.SiteID, in.Actor, action, target, in.Reason)
	})
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// DeleteBlock frees the inventory again. Not audited.
func (s *MaintenanceService) DeleteBlock(siteID, blockID uint) error {
	res := s.DB.Where("site_config_id = ?", siteID).Delete(&models.MaintenanceBlock{}, blockID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete maintenance block: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMaintenanceNotFound
	}
	return nil
}
