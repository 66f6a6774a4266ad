package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk-backend/models"
)

func TestRemaining_MinAcrossNights(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewAvailabilityService(db)

	roomType := &models.RoomType{ID: 4, SiteConfigID: 1, TotalQuantity: 5}
	checkIn := day(2026, time.July, 10).Add(14 * time.Hour)
	checkOut := day(2026, time.July, 13).Add(11 * time.Hour)

	// Two stays overlap on the night of the 11th, so that night gates the
	// whole range at 5-2=3.
	bookingRows := sqlmock.NewRows([]string{"id", "site_config_id", "room_type_id", "room_unit_id", "status", "check_in", "check_out"}).
		AddRow(21, 1, 4, 11, models.BookingStatusConfirmed,
			day(2026, time.July, 10).Add(14*time.Hour), day(2026, time.July, 12).Add(11*time.Hour)).
		AddRow(22, 1, 4, 12, models.BookingStatusConfirmed,
			day(2026, time.July, 11).Add(14*time.Hour), day(2026, time.July, 13).Add(11*time.Hour))

	mock.ExpectQuery("SELECT .* FROM `bookings`").
		WithArgs(1, 4,
			models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCheckedIn,
			checkOut, checkIn).
		WillReturnRows(bookingRows)
	mock.ExpectQuery("SELECT .* FROM `maintenance_blocks`").
		WithArgs(1, 4, day(2026, time.July, 13), day(2026, time.July, 10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ok, remaining, err := svc.Remaining(1, roomType, nil, checkIn, checkOut)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemaining_UnitConflictBlocksTheRange(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewAvailabilityService(db)

	roomType := &models.RoomType{ID: 4, SiteConfigID: 1, TotalQuantity: 5}
	unit := &models.RoomUnit{ID: 9, RoomTypeID: 4}
	checkIn := day(2026, time.July, 10).Add(14 * time.Hour)
	checkOut := day(2026, time.July, 13).Add(11 * time.Hour)

	mock.ExpectQuery("SELECT .* FROM `bookings`").
		WithArgs(1, 4,
			models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCheckedIn,
			checkOut, checkIn, 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_config_id", "room_type_id", "room_unit_id", "status", "check_in", "check_out"}).
			AddRow(31, 1, 4, 9, models.BookingStatusCheckedIn,
				day(2026, time.July, 11).Add(14*time.Hour), day(2026, time.July, 12).Add(11*time.Hour)))
	mock.ExpectQuery("SELECT .* FROM `maintenance_blocks`").
		WithArgs(1, 4, day(2026, time.July, 13), day(2026, time.July, 10), 9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ok, remaining, err := svc.Remaining(1, roomType, unit, checkIn, checkOut)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemaining_EmptyRangeSkipsQueries(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewAvailabilityService(db)

	roomType := &models.RoomType{ID: 4, SiteConfigID: 1, TotalQuantity: 4}
	at := day(2026, time.July, 10).Add(14 * time.Hour)

	ok, remaining, err := svc.Remaining(1, roomType, nil, at, at)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbe_PinsWallTimes(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewAvailabilityService(db)

	mock.ExpectQuery("SELECT .* FROM `room_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_config_id", "name", "price_per_night", "total_quantity"}).
			AddRow(4, 1, "Standard", 90.0, 2))
	// The day-grain inputs must reach the overlap test as 14:00 / 11:00.
	mock.ExpectQuery("SELECT .* FROM `bookings`").
		WithArgs(1, 4,
			models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCheckedIn,
			day(2026, time.July, 13).Add(11*time.Hour), day(2026, time.July, 10).Add(14*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `maintenance_blocks`").
		WithArgs(1, 4, day(2026, time.July, 13), day(2026, time.July, 10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ok, remaining, nights, err := svc.Probe(1, 4, nil, day(2026, time.July, 10), day(2026, time.July, 13))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, remaining)
	assert.Equal(t, 3, nights)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbe_InvalidRange(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewAvailabilityService(db)

	_, _, _, err := svc.Probe(1, 4, nil, day(2026, time.July, 10), day(2026, time.July, 10))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, _, _, err = svc.Probe(1, 4, nil, day(2026, time.July, 13), day(2026, time.July, 10))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbe_UnknownUnit(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewAvailabilityService(db)

	mock.ExpectQuery("SELECT .* FROM `room_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_config_id", "total_quantity"}).
			AddRow(4, 1, 2))
	mock.ExpectQuery("SELECT .* FROM `room_units`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	unitID := uint(99)
	_, _, _, err := svc.Probe(1, 4, &unitID, day(2026, time.July, 10), day(2026, time.July, 13))
	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
