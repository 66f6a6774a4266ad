package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

type VisitorService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewVisitorService(db *gorm.DB, now func() time.Time) *VisitorService {
	if now == nil {
		now = time.Now
	}
	return &VisitorService{DB: db, Now: now}
}

// Track records one public page hit against a site.
func (s *VisitorService) Track(siteID uint, ip, userAgent, path string) error {
	visit := models.Visitor{
		SiteConfigID: siteID,
		IP:           ip,
		UserAgent:    userAgent,
		Path:         path,
		Timestamp:    s.Now(),
	}
	if err := s.DB.Create(&visit).Error; err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// ListRecent returns the newest visits for the platform owner's traffic
// view, across all sites or narrowed to one.
func (s *VisitorService) ListRecent(siteID *uint, limit int) ([]models.Visitor, error) {
	if limit <= 0 {
		limit = 200
	}
	query := s.DB.Order("timestamp DESC, id DESC").Limit(limit)
	if siteID != nil {
		query = query.Where("site_config_id = ?", *siteID)
	}
	var visits []models.Visitor
	if err := query.Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to load visitors: %w", err)
	}
	return visits, nil
}

// CountSince reports traffic volume for one site after a cutoff.
func (s *VisitorService) CountSince(siteID uint, since time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Visitor{}).
		Where("site_config_id = ? AND timestamp >= ?", siteID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return count, nil
}
