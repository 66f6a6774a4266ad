package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"roomdesk-backend/models"
)

func userRow(t *testing.T, password string, active bool) (*sqlmock.Rows, *sqlmock.Rows) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	users := sqlmock.NewRows([]string{"id", "site_config_id", "username", "password_hash", "role"}).
		AddRow(7, 3, "demo_ad", string(hash), models.RoleAdmin)
	sites := sqlmock.NewRows([]string{"id", "extension", "hotel_name", "is_active"}).
		AddRow(3, "demo", "Demo Hotel", active)
	return users, sites
}

func TestAuthenticate_Succeeds(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	users, sites := userRow(t, "secret123", true)
	mock.ExpectQuery("SELECT .* FROM `users`").WillReturnRows(users)
	mock.ExpectQuery("SELECT .* FROM `site_configs`").WillReturnRows(sites)

	user, err := svc.Authenticate("demo_ad", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	users, sites := userRow(t, "secret123", true)
	mock.ExpectQuery("SELECT .* FROM `users`").WillReturnRows(users)
	mock.ExpectQuery("SELECT .* FROM `site_configs`").WillReturnRows(sites)

	_, err := svc.Authenticate("demo_ad", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Authenticate("ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_DisabledSite(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	users, sites := userRow(t, "secret123", false)
	mock.ExpectQuery("SELECT .* FROM `users`").WillReturnRows(users)
	mock.ExpectQuery("SELECT .* FROM `site_configs`").WillReturnRows(sites)

	_, err := svc.Authenticate("demo_ad", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_NormalizesRole(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs("frontdesk2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO `audit_logs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := svc.CreateUser(3, "frontdesk2", "secret123", "manager", "demo_ad")
	require.NoError(t, err)
	assert.Equal(t, uint(9), user.ID)
	// Unknown roles collapse to staff.
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs("demo_ad").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateUser(3, "demo_ad", "secret123", models.RoleAdmin, "demo_ad")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_NotFound(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewUserService(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `users`").
		WithArgs(3, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.DeleteUser(3, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
