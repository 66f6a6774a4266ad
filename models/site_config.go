package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteConfig is one hotel tenant. Every other entity hangs off it and is
// removed with it when the owner deletes the site.
type SiteConfig struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Extension string `gorm:"uniqueIndex;size:50" json:"extension"`
	HotelName string `gorm:"size:255" json:"hotel_name"`

	Highlights       string         `gorm:"type:text" json:"highlights"`
	AboutDescription string         `gorm:"type:text" json:"about_description"`
	AmenitiesList    datatypes.JSON `json:"amenities_list"`
	Rules            string         `gorm:"type:text" json:"rules"`

	ContactEmail string `gorm:"size:150" json:"contact_email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Address      string `gorm:"type:text" json:"address"`
	MapURL       string `gorm:"size:500" json:"map_url"`
	FacebookURL  string `gorm:"size:255" json:"facebook_url"`
	InstagramURL string `gorm:"size:255" json:"instagram_url"`
	YoutubeURL   string `gorm:"size:255" json:"youtube_url"`

	IsActive bool   `gorm:"default:true" json:"is_active"`
	ThemeID  string `gorm:"size:50;default:classic" json:"theme_id"`

	BookingExpirationHours int    `gorm:"default:24" json:"booking_expiration_hours"`
	BookingSuccessMessage  string `gorm:"type:text" json:"booking_success_message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users         []User          `gorm:"foreignKey:SiteConfigID;constraint:OnDelete:CASCADE" json:"-"`
	RoomTypes     []RoomType      `gorm:"foreignKey:SiteConfigID;constraint:OnDelete:CASCADE" json:"-"`
	Bookings      []Booking       `gorm:"foreignKey:SiteConfigID;constraint:OnDelete:CASCADE" json:"-"`
	SeasonalRates []SeasonalRate  `gorm:"foreignKey:SiteConfigID;constraint:OnDelete:CASCADE" json:"-"`
	HeroImages    []HeroImage     `gorm:"foreignKey:SiteConfigID;constraint:OnDelete:CASCADE" json:"-"`
	Visitors      []Visitor       `gorm:"foreignKey:SiteConfigID;constraint:OnDelete:CASCADE" json:"-"`
}
