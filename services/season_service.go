package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// SeasonService manages the seasonal rate calendar. Two rates may only
// coexist on the same dates when their scopes differ; within one scope the
// calendar is overlap-free, so multiplier lookup never has to arbitrate.
type SeasonService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSeasonService(db *gorm.DB, now func() time.Time) *SeasonService {
	if now == nil {
		now = time.Now
	}
	return &SeasonService{DB: db, Now: now}
}

func (s *SeasonService) ListSeasons(siteID uint) ([]models.SeasonalRate, error) {
	var rates []models.SeasonalRate
	err := s.DB.
		Where("site_config_id = ?", siteID).
		Order("start_date ASC, id ASC").
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seasonal rates: %w", err)
	}
	return rates, nil
}

// SeasonInput describes one rate window. A nil RoomTypeID makes it a
// tenant-wide wildcard.
type SeasonInput struct {
	SiteID     uint
	RoomTypeID *uint
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Multiplier float64
	Actor      string
}

// scopeOverlapQuery matches rates in the same scope whose inclusive window
// touches [start, end]. excludeID skips the rate being edited.
func scopeOverlapQuery(tx *gorm.DB, in SeasonInput, excludeID uint) *gorm.DB {
	q := tx.Model(&models.SeasonalRate{}).
		Where("site_config_id = ?", in.SiteID).
		Where("start_date <= ? AND end_date >= ?", in.EndDate, in.StartDate)
	if in.RoomTypeID != nil {
		q = q.Where("room_type_id = ?", *in.RoomTypeID)
	} else {
		q = q.Where("room_type_id IS NULL")
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func (s *SeasonService) validateScope(tx *gorm.DB, in SeasonInput) error {
	if !in.EndDate.After(in.StartDate) {
		return ErrInvalidDateRange
	}
	if in.RoomTypeID != nil {
		var count int64
		err := tx.Model(&models.RoomType{}).
			Where("site_config_id = ? AND id = ?", in.SiteID, *in.RoomTypeID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check room type: %w", err)
		}
		if count == 0 {
			return ErrRoomTypeNotFound
		}
	}
	return nil
}

func (s *SeasonService) CreateSeason(in SeasonInput) (*models.SeasonalRate, error) {
	var rate models.SeasonalRate
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.validateScope(tx, in); err != nil {
			return err
		}

		var overlapping int64
		if err := scopeOverlapQuery(tx, in, 0).Count(&overlapping).Error; err != nil {
			return fmt.Errorf("failed to check season overlap: %w", err)
		}
		if overlapping > 0 {
			return ErrSeasonOverlap
		}

		rate = models.SeasonalRate{
			SiteConfigID: in.SiteID,
			RoomTypeID:   in.RoomTypeID,
			Name:         in.Name,
			StartDate:    dateOf(in.StartDate),
			EndDate:      dateOf(in.EndDate),
			Multiplier:   in.Multiplier,
		}
		if err := tx.Create(&rate).Error; err != nil {
			return fmt.Errorf("failed to create seasonal rate: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(in.SiteID, in.Actor, "Add Season", in.Name, fmt.Sprintf("x%.2f", in.Multiplier))
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *SeasonService) UpdateSeason(siteID, rateID uint, in SeasonInput) (*models.SeasonalRate, error) {
	var rate models.SeasonalRate
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("site_config_id = ?", siteID).First(&rate, rateID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSeasonNotFound
			}
			return fmt.Errorf("failed to load seasonal rate: %w", err)
		}

		in.SiteID = siteID
		if err := s.validateScope(tx, in); err != nil {
			return err
		}

		var overlapping int64
		if err := scopeOverlapQuery(tx, in, rate.ID).Count(&overlapping).Error; err != nil {
			return fmt.Errorf("failed to check season overlap: %w", err)
		}
		if overlapping > 0 {
			return ErrSeasonOverlap
		}

		updates := map[string]interface{}{
			"room_type_id": in.RoomTypeID,
			"name":         in.Name,
			"start_date":   dateOf(in.StartDate),
			"end_date":     dateOf(in.EndDate),
			"multiplier":   in.Multiplier,
		}
		if err := tx.Model(&rate).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update seasonal rate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// DeleteSeason drops a rate window. Not audited.
func (s *SeasonService) DeleteSeason(siteID, rateID uint) error {
	res := s.DB.Where("site_config_id = ?", siteID).Delete(&models.SeasonalRate{}, rateID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete seasonal rate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSeasonNotFound
	}
	return nil
}
