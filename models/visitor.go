package models

import "time"

type Visitor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SiteConfigID uint      `gorm:"index" json:"site_config_id"`
	IP           string    `gorm:"size:64" json:"ip"`
	UserAgent    string    `gorm:"size:500" json:"user_agent"`
	Path         string    `gorm:"size:255" json:"path"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
}
