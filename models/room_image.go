package models

type RoomImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoomTypeID uint   `gorm:"index" json:"room_type_id"`
	URL        string `gorm:"size:500" json:"url"`
}
