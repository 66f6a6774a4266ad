package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestResolveExtension_CachesLookups(t *testing.T) {
	db, mock := setupGorm(t)
	mr, rdb := setupRedis(t)
	svc := NewSiteService(db, rdb, nil, nil)

	// Only one database hit is scripted; the second resolve must come from
	// the cache.
	mock.ExpectQuery("SELECT .* FROM `site_configs`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	ctx := context.Background()
	id, err := svc.ResolveExtension(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	cached, err := mr.Get("site_ext:demo")
	require.NoError(t, err)
	assert.Equal(t, "3", cached)

	id, err = svc.ResolveExtension(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveExtension_UnknownExtension(t *testing.T) {
	db, mock := setupGorm(t)
	mr, rdb := setupRedis(t)
	svc := NewSiteService(db, rdb, nil, nil)

	mock.ExpectQuery("SELECT .* FROM `site_configs`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.ResolveExtension(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSiteNotFound)
	assert.False(t, mr.Exists("site_ext:ghost"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveExtension_WorksWithoutRedis(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSiteService(db, nil, nil, nil)

	mock.ExpectQuery("SELECT .* FROM `site_configs`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	id, err := svc.ResolveExtension(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchSite_InvalidatesExtensionCache(t *testing.T) {
	db, mock := setupGorm(t)
	mr, rdb := setupRedis(t)
	svc := NewSiteService(db, rdb, nil, nil)

	require.NoError(t, mr.Set("site_ext:demo", "3"))

	siteRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "extension", "hotel_name", "is_active"}).
			AddRow(3, "demo", "Demo Hotel", true)
	}
	mock.ExpectQuery("SELECT .* FROM `site_configs`").WillReturnRows(siteRow())
	mock.ExpectQuery("SELECT .* FROM `hero_images`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `site_configs` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `site_configs`").WillReturnRows(siteRow())
	mock.ExpectQuery("SELECT .* FROM `hero_images`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	inactive := false
	_, err := svc.PatchSite(context.Background(), 3, PatchSiteInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, mr.Exists("site_ext:demo"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSite_ProvisionsDefaultAccounts(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSiteService(db, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `site_configs`").
		WithArgs("seaside").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `site_configs`").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectCommit()

	site, err := svc.CreateSite(CreateSiteInput{
		Extension:     "seaside",
		HotelName:     "Seaside Resort",
		AdminPassword: "admin-secret",
		StaffPassword: "staff-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), site.ID)
	assert.Equal(t, "seaside", site.Extension)
	assert.True(t, site.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSite_DuplicateExtension(t *testing.T) {
	db, mock := setupGorm(t)
	svc := NewSiteService(db, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `site_configs`").
		WithArgs("seaside").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateSite(CreateSiteInput{Extension: "seaside", HotelName: "Twin"})
	assert.ErrorIs(t, err, ErrDuplicateExtension)
	assert.NoError(t, mock.ExpectationsWereMet())
}
