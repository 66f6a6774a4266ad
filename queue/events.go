package queue

import "time"

// BookingConfirmedEvent is published after a guest confirmation commits.
// Downstream consumers turn it into notifications; the API never waits on
// them.
type BookingConfirmedEvent struct {
	SiteID       uint      `json:"site_id"`
	Extension    string    `json:"extension"`
	BookingCodes []string  `json:"booking_codes"`
	GuestName    string    `json:"guest_name"`
	GuestEmail   string    `json:"guest_email"`
	RoomTypeID   uint      `json:"room_type_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	RoomsBooked  int       `json:"rooms_booked"`
	TotalPrice   float64   `json:"total_price"`
	CreatedAt    time.Time `json:"created_at"`
}
