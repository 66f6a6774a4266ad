package models

import "time"

// RoomUnit is one physical room of a type, the resource bookings are pinned
// to. Labels are free-form ("101", "Sea View A") and positional by default.
type RoomUnit struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RoomTypeID     uint      `gorm:"index" json:"room_type_id"`
	Label          string    `gorm:"size:100" json:"label"`
	CleaningStatus string    `gorm:"size:20;default:clean" json:"cleaning_status"`
	CreatedAt      time.Time `json:"created_at"`
}
