package models

import "time"

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCheckedOut = "checked_out"
	BookingStatusCancelled  = "cancelled"
)

// OccupyingStatuses are the lifecycle states that hold inventory against a
// night. Checked-out and cancelled bookings free their unit.
var OccupyingStatuses = []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn}

// HistoryStatuses are the states considered when measuring a unit's most
// recent prior stay for gap scoring.
var HistoryStatuses = []string{BookingStatusConfirmed, BookingStatusCheckedIn, BookingStatusCheckedOut}

// Booking reserves exactly one unit (RoomsBooked stays 1 on creation); a
// guest request for N rooms yields N rows, each with its own code.
// RoomUnitID is NULL when assignment could not find a free unit and the row
// was kept anyway.
type Booking struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SiteConfigID uint   `gorm:"index" json:"site_config_id"`
	BookingCode  string `gorm:"index;size:20" json:"booking_code"`
	RoomTypeID   uint   `gorm:"index" json:"room_type_id"`
	RoomUnitID   *uint  `gorm:"index" json:"room_unit_id,omitempty"`

	GuestName  string `gorm:"size:255" json:"guest_name"`
	GuestEmail string `gorm:"size:150" json:"guest_email"`
	GuestPhone string `gorm:"size:50" json:"guest_phone"`

	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`

	RoomsBooked int    `gorm:"default:1" json:"rooms_booked"`
	GuestsCount int    `gorm:"default:1" json:"guests_count"`
	Status      string `gorm:"size:20;default:pending;index" json:"status"`

	TotalPrice    float64 `json:"total_price"`
	DepositAmount float64 `json:"deposit_amount"`
	Notes         string  `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoomType RoomType  `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	RoomUnit *RoomUnit `gorm:"foreignKey:RoomUnitID;constraint:OnDelete:SET NULL" json:"room_unit,omitempty"`
}
