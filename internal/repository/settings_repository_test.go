package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsMock(t *testing.T) (*SettingsRepository, sqlmock.Sqlmock, func()) {
	t.Setenv("TEST_DB_DRIVER", "mysql")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSettingsRepository(db), mock, func() { db.Close() }
}

func TestGetMissingKeyIsEmpty(t *testing.T) {
	repo, mock, done := newSettingsMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs("webhook_domain").
		WillReturnError(sql.ErrNoRows)

	value, err := repo.Get(context.Background(), "webhook_domain")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestGetBoolFallbacks(t *testing.T) {
	repo, mock, done := newSettingsMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value")).
		WithArgs("maintenance_mode").
		WillReturnError(sql.ErrNoRows)
	enabled, err := repo.GetBool(context.Background(), "maintenance_mode", false)
	require.NoError(t, err)
	assert.False(t, enabled)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value")).
		WithArgs("maintenance_mode").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("true"))
	enabled, err = repo.GetBool(context.Background(), "maintenance_mode", false)
	require.NoError(t, err)
	assert.True(t, enabled)

	// Malformed values resolve to the fallback instead of erroring.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value")).
		WithArgs("maintenance_mode").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("banana"))
	enabled, err = repo.GetBool(context.Background(), "maintenance_mode", true)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestGetIntFallback(t *testing.T) {
	repo, mock, done := newSettingsMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value")).
		WithArgs("notification_retention_days").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("30"))
	days, err := repo.GetInt(context.Background(), "notification_retention_days", 90)
	require.NoError(t, err)
	assert.Equal(t, 30, days)
}

func TestSetInsertsWhenUpdateMissesZeroRows(t *testing.T) {
	repo, mock, done := newSettingsMock(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE system_settings SET setting_value = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO system_settings")).
		WithArgs("webhook_domain", "https://hooks.example.com", "string", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), "webhook_domain", "https://hooks.example.com", "string")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotificationSettingsDefaults(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "mysql")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotificationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM notification_settings")).
		WithArgs("u-1").
		WillReturnError(sql.ErrNoRows)

	settings, err := repo.GetSettings(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", settings.UserID)
	assert.True(t, settings.Tickets)
	assert.True(t, settings.System)
}
