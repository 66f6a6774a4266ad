package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomdesk-backend/models"
	"roomdesk-backend/utils"
)

// BookingService owns the booking lifecycle: guest-facing confirmation,
// front-desk creation and edits, status moves, and the calendar feeds built
// from booking data.
type BookingService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Now    func() time.Time
}

func NewBookingService(db *gorm.DB, logger *zap.Logger, now func() time.Time) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{DB: db, Logger: logger, Now: now}
}

// ConfirmInput is a guest booking request for one room type. Dates are at
// day grain; the service pins them to the 14:00 / 11:00 wall times.
type ConfirmInput struct {
	SiteID       uint
	RoomTypeID   uint
	CheckInDate  time.Time
	CheckOutDate time.Time
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	RoomsNeeded  int
	GuestsCount  int
}

// ConfirmResult reports what a confirmation created. Multi-room requests
// produce one booking row per room, each with its own code; TotalPrice is
// the guest-facing sum across all rooms.
type ConfirmResult struct {
	BookingCodes []string         `json:"booking_codes"`
	Bookings     []models.Booking `json:"bookings"`
	TotalPrice   float64          `json:"total_price"`
	Nights       int              `json:"nights"`
	CheckIn      time.Time        `json:"check_in"`
	CheckOut     time.Time        `json:"check_out"`
}

// ConfirmBooking runs the whole pipeline inside one transaction: lock the
// room type row, check range availability, price the stay, pick units, then
// insert one row per requested room. Concurrent confirmations for the same
// room type serialize on the row lock, so the availability check cannot race
// past capacity. Unit assignment may come up short without failing the
// request; such rows are created unassigned.
func (s *BookingService) ConfirmBooking(in ConfirmInput) (*ConfirmResult, error) {
	checkIn := atCheckInHour(in.CheckInDate)
	checkOut := atCheckOutHour(in.CheckOutDate)
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}
	if in.RoomsNeeded < 1 {
		in.RoomsNeeded = 1
	}
	if in.GuestsCount < 1 {
		in.GuestsCount = 1
	}

	var result *ConfirmResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var roomType models.RoomType
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("site_config_id = ?", in.SiteID).
			First(&roomType, in.RoomTypeID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("failed to lock room type: %w", err)
		}

		availability := &AvailabilityService{DB: tx}
		ok, remaining, err := availability.Remaining(in.SiteID, &roomType, nil, checkIn, checkOut)
		if err != nil {
			return err
		}
		if !ok || remaining < in.RoomsNeeded {
			return ErrInsufficientInventory
		}

		pricing := &PricingService{DB: tx}
		totalOne, nights, err := pricing.QuoteForRoomType(&roomType, checkIn, checkOut, 1)
		if err != nil {
			return err
		}

		allocation := &AllocationService{DB: tx}
		picks, err := allocation.AssignUnits(&roomType, checkIn, checkOut, in.RoomsNeeded)
		if err != nil {
			return err
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		created := make([]models.Booking, 0, in.RoomsNeeded)
		codes := make([]string, 0, in.RoomsNeeded)
		for _, unit := range picks {
			code := utils.GenerateBookingCode()
			booking := models.Booking{
				SiteConfigID: in.SiteID,
				BookingCode:  code,
				RoomTypeID:   roomType.ID,
				GuestName:    in.GuestName,
				GuestEmail:   in.GuestEmail,
				GuestPhone:   in.GuestPhone,
				CheckIn:      checkIn,
				CheckOut:     checkOut,
				RoomsBooked:  1,
				GuestsCount:  in.GuestsCount,
				Status:       models.BookingStatusPending,
				TotalPrice:   totalOne,
				CreatedAt:    s.Now(),
			}
			var unitLabel string
			if unit != nil {
				booking.RoomUnitID = &unit.ID
				unitLabel = unit.Label
			}
			if err := tx.Create(&booking).Error; err != nil {
				return fmt.Errorf("failed to create booking: %w", err)
			}
			detail := utils.FormatUnitDetail(in.GuestName, unitLabel)
			if err := audit.Log(in.SiteID, "Guest", "New Booking", code, detail); err != nil {
				return err
			}
			created = append(created, booking)
			codes = append(codes, code)
		}

		result = &ConfirmResult{
			BookingCodes: codes,
			Bookings:     created,
			TotalPrice:   totalOne * float64(in.RoomsNeeded),
			Nights:       nights,
			CheckIn:      checkIn,
			CheckOut:     checkOut,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("bookings confirmed",
		zap.Uint("site_id", in.SiteID),
		zap.Uint("room_type_id", in.RoomTypeID),
		zap.Int("rooms", in.RoomsNeeded),
		zap.Strings("codes", result.BookingCodes),
	)
	return result, nil
}

// ManualInput is a front-desk booking created by staff. The unit may be
// chosen explicitly; otherwise the first unit free of any overlapping
// booking is taken.
type ManualInput struct {
	SiteID        uint
	RoomTypeID    uint
	RoomUnitID    *uint
	CheckInDate   time.Time
	CheckOutDate  time.Time
	GuestName     string
	GuestEmail    string
	GuestPhone    string
	GuestsCount   int
	Status        string
	DepositAmount float64
	Notes         string
	Actor         string
}

func (s *BookingService) CreateManualBooking(in ManualInput) (*models.Booking, error) {
	checkIn := atCheckInHour(in.CheckInDate)
	checkOut := atCheckOutHour(in.CheckOutDate)
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}
	if in.GuestsCount < 1 {
		in.GuestsCount = 1
	}
	if in.Status == "" {
		in.Status = models.BookingStatusPending
	}

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var roomType models.RoomType
		err := tx.Where("site_config_id = ?", in.SiteID).First(&roomType, in.RoomTypeID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("failed to load room type: %w", err)
		}

		var unit *models.RoomUnit
		if in.RoomUnitID != nil {
			var u models.RoomUnit
			err := tx.Where("room_type_id = ?", roomType.ID).First(&u, *in.RoomUnitID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnitNotFound
				}
				return fmt.Errorf("failed to load room unit: %w", err)
			}
			unit = &u
		} else {
			allocation := &AllocationService{DB: tx}
			unit, err = allocation.FirstFreeUnit(roomType.ID, checkIn, checkOut)
			if err != nil {
				return err
			}
			if unit == nil {
				return ErrInsufficientInventory
			}
		}

		pricing := &PricingService{DB: tx}
		total, _, err := pricing.QuoteForRoomType(&roomType, checkIn, checkOut, 1)
		if err != nil {
			return err
		}

		booking = models.Booking{
			SiteConfigID:  in.SiteID,
			BookingCode:   utils.GenerateBookingCode(),
			RoomTypeID:    roomType.ID,
			RoomUnitID:    &unit.ID,
			GuestName:     in.GuestName,
			GuestEmail:    in.GuestEmail,
			GuestPhone:    in.GuestPhone,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			RoomsBooked:   1,
			GuestsCount:   in.GuestsCount,
			Status:        in.Status,
			TotalPrice:    total,
			DepositAmount: in.DepositAmount,
			Notes:         in.Notes,
			CreatedAt:     s.Now(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(in.SiteID, in.Actor, "Create Booking", booking.BookingCode, "Manual Admin Creation")
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// EditInput carries partial updates for a booking. Nil fields keep their
// current value; ClearUnit drops the unit assignment.
type EditInput struct {
	GuestName     *string
	GuestEmail    *string
	GuestPhone    *string
	CheckInDate   *time.Time
	CheckOutDate  *time.Time
	RoomTypeID    *uint
	RoomUnitID    *uint
	ClearUnit     bool
	RoomsBooked   *int
	GuestsCount   *int
	Status        *string
	DepositAmount *float64
	Notes         *string
	Actor         string
}

// EditBooking applies a partial update. The stay is re-priced when the
// proposed status, dates, room type or room count differ from the values the
// booking held before this edit; cosmetic edits keep the agreed price.
func (s *BookingService) EditBooking(siteID, bookingID uint, in EditInput) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("site_config_id = ?", siteID).First(&booking, bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}

		oldStatus := booking.Status
		oldCheckIn := booking.CheckIn
		oldCheckOut := booking.CheckOut
		oldRoomTypeID := booking.RoomTypeID
		oldRoomsBooked := booking.RoomsBooked

		newStatus := oldStatus
		if in.Status != nil {
			newStatus = *in.Status
		}
		newCheckIn := oldCheckIn
		if in.CheckInDate != nil {
			newCheckIn = atCheckInHour(*in.CheckInDate)
		}
		newCheckOut := oldCheckOut
		if in.CheckOutDate != nil {
			newCheckOut = atCheckOutHour(*in.CheckOutDate)
		}
		newRoomTypeID := oldRoomTypeID
		if in.RoomTypeID != nil {
			newRoomTypeID = *in.RoomTypeID
		}
		newRoomsBooked := oldRoomsBooked
		if in.RoomsBooked != nil {
			newRoomsBooked = *in.RoomsBooked
		}
		if !newCheckIn.Before(newCheckOut) {
			return ErrInvalidDateRange
		}

		var newRoomType models.RoomType
		err = tx.Where("site_config_id = ?", siteID).First(&newRoomType, newRoomTypeID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("failed to load room type: %w", err)
		}

		updates := map[string]interface{}{
			"status":       newStatus,
			"check_in":     newCheckIn,
			"check_out":    newCheckOut,
			"room_type_id": newRoomTypeID,
			"rooms_booked": newRoomsBooked,
		}
		if in.GuestName != nil {
			updates["guest_name"] = *in.GuestName
		}
		if in.GuestEmail != nil {
			updates["guest_email"] = *in.GuestEmail
		}
		if in.GuestPhone != nil {
			updates["guest_phone"] = *in.GuestPhone
		}
		if in.GuestsCount != nil {
			updates["guests_count"] = *in.GuestsCount
		}
		if in.DepositAmount != nil {
			updates["deposit_amount"] = *in.DepositAmount
		}
		if in.Notes != nil {
			updates["notes"] = *in.Notes
		}
		if in.ClearUnit {
			updates["room_unit_id"] = nil
		} else if in.RoomUnitID != nil {
			var unit models.RoomUnit
			err := tx.Where("room_type_id = ?", newRoomTypeID).First(&unit, *in.RoomUnitID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnitNotFound
				}
				return fmt.Errorf("failed to load room unit: %w", err)
			}
			updates["room_unit_id"] = unit.ID
		}

		repriceNeeded := newStatus != oldStatus ||
			!newCheckIn.Equal(oldCheckIn) ||
			!newCheckOut.Equal(oldCheckOut) ||
			newRoomTypeID != oldRoomTypeID ||
			newRoomsBooked != oldRoomsBooked
		if repriceNeeded {
			pricing := &PricingService{DB: tx}
			total, _, err := pricing.QuoteForRoomType(&newRoomType, newCheckIn, newCheckOut, newRoomsBooked)
			if err != nil {
				return err
			}
			updates["total_price"] = total
		}

		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		if newStatus != oldStatus {
			audit := &AuditService{DB: tx, Now: s.Now}
			detail := fmt.Sprintf("Status: %s->%s", oldStatus, newStatus)
			if err := audit.Log(siteID, in.Actor, "Update Booking", booking.BookingCode, detail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// statusTransitions maps each target status to the statuses it may be
// reached from. Anything else through the transition endpoints is rejected;
// the full edit endpoint stays free-form for corrections.
var statusTransitions = map[string][]string{
	models.BookingStatusConfirmed:  {models.BookingStatusPending},
	models.BookingStatusCheckedIn:  {models.BookingStatusConfirmed},
	models.BookingStatusCheckedOut: {models.BookingStatusCheckedIn},
	models.BookingStatusCancelled: {
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCheckedIn,
	},
}

// TransitionStatus moves a booking along the lifecycle. Inventory is not
// re-checked: pending rows already count against capacity, so confirming one
// changes nothing.
func (s *BookingService) TransitionStatus(siteID, bookingID uint, target, actor string) (*models.Booking, error) {
	allowed, ok := statusTransitions[target]
	if !ok {
		return nil, ErrInvalidStatusTransition
	}

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("site_config_id = ?", siteID).First(&booking, bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}

		permitted := false
		for _, from := range allowed {
			if booking.Status == from {
				permitted = true
				break
			}
		}
		if !permitted {
			return ErrInvalidStatusTransition
		}

		oldStatus := booking.Status
		if err := tx.Model(&booking).Update("status", target).Error; err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		detail := fmt.Sprintf("Status: %s->%s", oldStatus, target)
		return audit.Log(siteID, actor, "Update Booking", booking.BookingCode, detail)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking removes the row permanently. Cancellation is the soft path;
// this one is destructive and audited as such.
func (s *BookingService) DeleteBooking(siteID, bookingID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Where("site_config_id = ?", siteID).First(&booking, bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(siteID, actor, "Delete Booking", booking.BookingCode, "Permanently Deleted")
	})
}

// ListBookings returns a site's bookings, newest first. Search matches the
// booking code or guest name; status narrows to one lifecycle state.
func (s *BookingService) ListBookings(siteID uint, search, status string) ([]models.Booking, error) {
	query := s.DB.
		Preload("RoomType").
		Preload("RoomUnit").
		Where("site_config_id = ?", siteID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("booking_code LIKE ? OR guest_name LIKE ?", like, like)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) GetByID(siteID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("RoomType").
		Preload("RoomUnit").
		Where("site_config_id = ?", siteID).
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

// GetByCode looks a booking up by its guest-facing code.
func (s *BookingService) GetByCode(siteID uint, code string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("RoomType").
		Preload("RoomUnit").
		Where("site_config_id = ? AND booking_code = ?", siteID, code).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

// ExpireStalePending cancels pending bookings older than the given number of
// hours and reports how many were touched.
func (s *BookingService) ExpireStalePending(siteID uint, olderThanHours int) (int64, error) {
	if olderThanHours <= 0 {
		olderThanHours = 24
	}
	cutoff := s.Now().Add(-time.Duration(olderThanHours) * time.Hour)

	var expired int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("site_config_id = ? AND status = ? AND created_at < ?", siteID, models.BookingStatusPending, cutoff).
			Update("status", models.BookingStatusCancelled)
		if res.Error != nil {
			return fmt.Errorf("failed to expire pending bookings: %w", res.Error)
		}
		expired = res.RowsAffected
		if expired == 0 {
			return nil
		}
		audit := &AuditService{DB: tx, Now: s.Now}
		detail := fmt.Sprintf("Cancelled %d pending bookings older than %dh", expired, olderThanHours)
		return audit.Log(siteID, "System", "Expire Pending", "Bookings", detail)
	})
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.Logger.Info("expired stale pending bookings",
			zap.Uint("site_id", siteID),
			zap.Int64("count", expired),
		)
	}
	return expired, nil
}

// CalendarDay is one day in the public availability feed.
type CalendarDay struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
	Available bool   `json:"available"`
}

// CalendarEvents builds the day-by-day remaining count over [start, end) for
// a site, optionally narrowed to one room type. A day is held by a stay that
// covers its 23:59 mark; only pending and confirmed stays count here.
func (s *BookingService) CalendarEvents(siteID uint, start, end time.Time, roomTypeID *uint) ([]CalendarDay, error) {
	typeQuery := s.DB.Model(&models.RoomType{}).Where("site_config_id = ?", siteID)
	if roomTypeID != nil {
		typeQuery = typeQuery.Where("id = ?", *roomTypeID)
	}
	var capacity int
	if err := typeQuery.Select("COALESCE(SUM(total_quantity), 0)").Scan(&capacity).Error; err != nil {
		return nil, fmt.Errorf("failed to sum capacity: %w", err)
	}

	bookingQuery := s.DB.
		Where("site_config_id = ?", siteID).
		Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusPending}).
		Where("check_in < ? AND check_out > ?", end, start)
	if roomTypeID != nil {
		bookingQuery = bookingQuery.Where("room_type_id = ?", *roomTypeID)
	}
	var bookings []models.Booking
	if err := bookingQuery.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load calendar bookings: %w", err)
	}

	blockQuery := s.DB.
		Where("site_config_id = ?", siteID).
		Where("start_date <= ? AND end_date > ?", dateOf(end), dateOf(start))
	if roomTypeID != nil {
		blockQuery = blockQuery.Where("room_type_id = ?", *roomTypeID)
	}
	var blocks []models.MaintenanceBlock
	if err := blockQuery.Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("failed to load calendar blocks: %w", err)
	}

	days := []CalendarDay{}
	for curr := dateOf(start); curr.Before(dateOf(end)); curr = curr.AddDate(0, 0, 1) {
		checkTime := curr.Add(23*time.Hour + 59*time.Minute)

		booked := 0
		for i := range bookings {
			if !bookings[i].CheckIn.After(checkTime) && bookings[i].CheckOut.After(checkTime) {
				booked++
			}
		}
		blocked := 0
		for i := range blocks {
			if !blocks[i].StartDate.After(curr) && blocks[i].EndDate.After(curr) {
				blocked += blocks[i].QtyBlocked
			}
		}

		remaining := capacity - booked - blocked
		days = append(days, CalendarDay{
			Date:      curr.Format("2006-01-02"),
			Remaining: remaining,
			Available: remaining > 0,
		})
	}
	return days, nil
}

// TapeGroup is one row of the tape chart: a physical unit.
type TapeGroup struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// TapeItem is one bar on the chart, either a stay or a maintenance block.
type TapeItem struct {
	ID      string    `json:"id"`
	GroupID uint      `json:"group"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Kind    string    `json:"kind"`
	Status  string    `json:"status,omitempty"`
}

// TapeChartData feeds the front-desk unit timeline.
type TapeChartData struct {
	Groups []TapeGroup `json:"groups"`
	Items  []TapeItem  `json:"items"`
}

// TapeChart lists every unit of a site as a group, ordered by room type name
// then unit label, with unit-assigned stays and unit maintenance blocks as
// items. Cancelled stays are left off the chart.
func (s *BookingService) TapeChart(siteID uint) (*TapeChartData, error) {
	var roomTypes []models.RoomType
	err := s.DB.
		Where("site_config_id = ?", siteID).
		Order("name ASC").
		Find(&roomTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load room types: %w", err)
	}

	data := &TapeChartData{Groups: []TapeGroup{}, Items: []TapeItem{}}
	typeIDs := make([]uint, 0, len(roomTypes))
	for i := range roomTypes {
		typeIDs = append(typeIDs, roomTypes[i].ID)
	}
	if len(typeIDs) == 0 {
		return data, nil
	}

	var units []models.RoomUnit
	err = s.DB.
		Where("room_type_id IN ?", typeIDs).
		Order("label ASC").
		Find(&units).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load room units: %w", err)
	}

	unitsByType := make(map[uint][]models.RoomUnit)
	for i := range units {
		unitsByType[units[i].RoomTypeID] = append(unitsByType[units[i].RoomTypeID], units[i])
	}
	unitIDs := make([]uint, 0, len(units))
	for i := range roomTypes {
		for _, u := range unitsByType[roomTypes[i].ID] {
			data.Groups = append(data.Groups, TapeGroup{
				ID:    u.ID,
				Title: fmt.Sprintf("%s - %s", roomTypes[i].Name, u.Label),
			})
			unitIDs = append(unitIDs, u.ID)
		}
	}
	if len(unitIDs) == 0 {
		return data, nil
	}

	chartStatuses := []string{
		models.BookingStatusConfirmed,
		models.BookingStatusPending,
		models.BookingStatusCheckedIn,
		models.BookingStatusCheckedOut,
	}
	var stays []models.Booking
	err = s.DB.
		Where("site_config_id = ? AND room_unit_id IN ?", siteID, unitIDs).
		Where("status IN ?", chartStatuses).
		Find(&stays).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tape chart bookings: %w", err)
	}
	for i := range stays {
		b := &stays[i]
		data.Items = append(data.Items, TapeItem{
			ID:      fmt.Sprintf("booking_%d", b.ID),
			GroupID: *b.RoomUnitID,
			Title:   b.GuestName,
			Start:   b.CheckIn,
			End:     b.CheckOut,
			Kind:    "booking",
			Status:  b.Status,
		})
	}

	var blocks []models.MaintenanceBlock
	err = s.DB.
		Where("site_config_id = ? AND room_unit_id IN ?", siteID, unitIDs).
		Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tape chart blocks: %w", err)
	}
	for i := range blocks {
		m := &blocks[i]
		data.Items = append(data.Items, TapeItem{
			ID:      fmt.Sprintf("maint_%d", m.ID),
			GroupID: *m.RoomUnitID,
			Title:   "BLOCKED",
			Start:   m.StartDate,
			End:     m.EndDate,
			Kind:    "maintenance",
		})
	}
	return data, nil
}
