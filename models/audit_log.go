package models

import "time"

// AuditLog rows are append-only and never read back by business logic.
type AuditLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SiteConfigID uint      `gorm:"index" json:"site_config_id"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
	User         string    `gorm:"size:150" json:"user"`
	Action       string    `gorm:"size:100" json:"action"`
	Target       string    `gorm:"size:255" json:"target"`
	Details      string    `gorm:"size:500" json:"details"`
}
