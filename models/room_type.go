package models

import "time"

// RoomType is a bookable category. TotalQuantity is the denormalized unit
// count; the unit rows under it are reconciled against it on every edit.
type RoomType struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SiteConfigID uint   `gorm:"index" json:"site_config_id"`
	Name         string `gorm:"size:255" json:"name"`
	Description  string `gorm:"type:text" json:"description"`

	PricePerNight float64 `json:"price_per_night"`
	TotalQuantity int     `gorm:"default:1" json:"total_quantity"`
	Capacity      int     `gorm:"default:2" json:"capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Units  []RoomUnit  `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
	Images []RoomImage `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}
