package models

import "time"

// SeasonalRate scales a room type's base price over an inclusive date range.
// A nil RoomTypeID makes the rate tenant-wide; type-scoped rates win over
// wildcard ones when both cover a night.
type SeasonalRate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SiteConfigID uint      `gorm:"index" json:"site_config_id"`
	RoomTypeID   *uint     `gorm:"index" json:"room_type_id,omitempty"`
	Name         string    `gorm:"size:255" json:"name"`
	StartDate    time.Time `gorm:"type:date" json:"start_date"`
	EndDate      time.Time `gorm:"type:date" json:"end_date"`
	Multiplier   float64   `gorm:"default:1.0" json:"multiplier"`
	CreatedAt    time.Time `json:"created_at"`
}
