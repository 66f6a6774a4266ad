package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSeason_ScopedHappyPath(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, fixedClock(day(2026, time.August, 25)))

	roomTypeID := uint(5)
	in := SeasonInput{
		SiteID:     1,
		RoomTypeID: &roomTypeID,
		Name:       "High Season",
		StartDate:  day(2026, time.July, 1).Add(9 * time.Hour),
		EndDate:    day(2026, time.July, 31),
		Multiplier: 1.5,
		Actor:      "admin",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `room_types`").
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `seasonal_rates`").
		WithArgs(1, in.EndDate, in.StartDate, 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `seasonal_rates`").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO `audit_logs`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	rate, err := svc.CreateSeason(in)
	require.NoError(t, err)
	assert.Equal(t, uint(12), rate.ID)
	// Stored bounds are truncated to date grain even when the input carries a
	// time of day.
	assert.Equal(t, day(2026, time.July, 1), rate.StartDate)
	assert.Equal(t, day(2026, time.July, 31), rate.EndDate)
	assert.Equal(t, 1.5, rate.Multiplier)
	require.NotNil(t, rate.RoomTypeID)
	assert.Equal(t, uint(5), *rate.RoomTypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeason_RejectsOverlapInScope(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, nil)

	in := SeasonInput{
		SiteID:     1,
		Name:       "Clashing",
		StartDate:  day(2026, time.July, 1),
		EndDate:    day(2026, time.July, 31),
		Multiplier: 2.0,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `seasonal_rates`").
		WithArgs(1, in.EndDate, in.StartDate).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateSeason(in)
	assert.ErrorIs(t, err, ErrSeasonOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeason_InvalidRange(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, nil)

	in := SeasonInput{
		SiteID:     1,
		Name:       "Backwards",
		StartDate:  day(2026, time.July, 31),
		EndDate:    day(2026, time.July, 1),
		Multiplier: 1.2,
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CreateSeason(in)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeason_UnknownScopeRoomType(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, nil)

	roomTypeID := uint(99)
	in := SeasonInput{
		SiteID:     1,
		RoomTypeID: &roomTypeID,
		Name:       "Orphaned",
		StartDate:  day(2026, time.July, 1),
		EndDate:    day(2026, time.July, 31),
		Multiplier: 1.2,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `room_types`").
		WithArgs(1, 99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err := svc.CreateSeason(in)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSeason_NotFound(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `seasonal_rates`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.UpdateSeason(1, 42, SeasonInput{
		Name:       "Renamed",
		StartDate:  day(2026, time.July, 1),
		EndDate:    day(2026, time.July, 31),
		Multiplier: 1.1,
	})
	assert.ErrorIs(t, err, ErrSeasonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSeason_RemovesTheRow(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `seasonal_rates`").
		WithArgs(1, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteSeason(1, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSeason_NotFound(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSeasonService(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `seasonal_rates`").
		WithArgs(1, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.DeleteSeason(1, 42)
	assert.ErrorIs(t, err, ErrSeasonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
