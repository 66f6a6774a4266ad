package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_RecordsHitWithPinnedTime(t *testing.T) {
	db, mock := setupGorm(t)
	at := time.Date(2026, 7, 10, 9, 30, 0, 0, time.UTC)
	svc := NewVisitorService(db, fixedClock(at))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `visitors`").
		WithArgs(1, "203.0.113.9", "Mozilla/5.0", "/api/public/demo", at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := svc.Track(1, "203.0.113.9", "Mozilla/5.0", "/api/public/demo")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent_ScopedToOneSite(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewVisitorService(db, nil)

	rows := sqlmock.NewRows([]string{"id", "site_config_id", "ip", "user_agent", "path", "timestamp"}).
		AddRow(2, 3, "198.51.100.4", "curl/8.0", "/api/public/demo", time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)).
		AddRow(1, 3, "198.51.100.4", "curl/8.0", "/api/public/demo", time.Date(2026, 7, 10, 11, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT .* FROM `visitors` WHERE site_config_id = .*ORDER BY timestamp DESC, id DESC").
		WillReturnRows(rows)

	siteID := uint(3)
	visits, err := svc.ListRecent(&siteID, 50)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, uint(2), visits[0].ID)
	assert.Equal(t, "/api/public/demo", visits[0].Path)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent_DefaultsLimitAcrossAllSites(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewVisitorService(db, nil)

	// No site filter and a sane cap even when the caller passes zero.
	mock.ExpectQuery("SELECT .* FROM `visitors` ORDER BY timestamp DESC, id DESC LIMIT .*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_config_id", "ip", "user_agent", "path", "timestamp"}))

	visits, err := svc.ListRecent(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, visits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSince_FiltersByCutoff(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewVisitorService(db, nil)

	cutoff := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `visitors`").
		WithArgs(3, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := svc.CountSince(3, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
