package models

import "time"

// MaintenanceBlock removes inventory for a date range. With a unit it takes
// that unit out of the pool; without one it subtracts QtyBlocked from the
// room type's capacity. Either way it counts against availability exactly
// like an occupying booking.
type MaintenanceBlock struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SiteConfigID uint      `gorm:"index" json:"site_config_id"`
	RoomTypeID   uint      `gorm:"index" json:"room_type_id"`
	RoomUnitID   *uint     `gorm:"index" json:"room_unit_id,omitempty"`
	StartDate    time.Time `gorm:"type:date" json:"start_date"`
	EndDate      time.Time `gorm:"type:date" json:"end_date"`
	Reason       string    `gorm:"size:255" json:"reason"`
	QtyBlocked   int       `gorm:"default:1" json:"qty_blocked"`
	CreatedAt    time.Time `json:"created_at"`

	RoomUnit *RoomUnit `gorm:"foreignKey:RoomUnitID;constraint:OnDelete:CASCADE" json:"room_unit,omitempty"`
}
