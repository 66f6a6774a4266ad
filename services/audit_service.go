package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
	"roomdesk-backend/utils"
)

type AuditService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAuditService(db *gorm.DB, now func() time.Time) *AuditService {
	if now == nil {
		now = time.Now
	}
	return &AuditService{DB: db, Now: now}
}

// Log appends one audit entry for a site. Details longer than the column
// allows are truncated with a trailing marker rather than rejected.
func (s *AuditService) Log(siteID uint, user, action, target, details string) error {
	entry := models.AuditLog{
		SiteConfigID: siteID,
		Timestamp:    s.Now(),
		User:         user,
		Action:       action,
		Target:       target,
		Details:      utils.TruncateDetails(details),
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Tail returns the newest entries for a site, most recent first.
func (s *AuditService) Tail(siteID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.AuditLog
	err := s.DB.
		Where("site_config_id = ?", siteID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	return entries, nil
}
