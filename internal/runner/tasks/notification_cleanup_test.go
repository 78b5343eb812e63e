package tasks

import (
	"context"
	"database/sql"
	"io"
	"log"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdesk/promptdesk/internal/repository"
)

func newCleanupTask(t *testing.T) (*NotificationCleanupTask, sqlmock.Sqlmock, func()) {
	t.Setenv("TEST_DB_DRIVER", "mysql")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	task := &NotificationCleanupTask{
		notifications: repository.NewNotificationRepository(db),
		settings:      repository.NewSettingsRepository(db),
		logger:        log.New(io.Discard, "", 0),
	}
	return task, mock, func() { db.Close() }
}

func TestRunUsesConfiguredRetention(t *testing.T) {
	task, mock, done := newCleanupTask(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs("notification_retention_days").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("30"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE is_read = TRUE AND created_at < ?")).
		WillReturnResult(sqlmock.NewResult(0, 12))

	require.NoError(t, task.Run(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunFallsBackToDefaultRetention(t *testing.T) {
	task, mock, done := newCleanupTask(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value")).
		WithArgs("notification_retention_days").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, task.Run(context.Background()))
}

func TestScheduleAndTimeout(t *testing.T) {
	task, _, done := newCleanupTask(t)
	defer done()

	assert.Equal(t, "notification-cleanup", task.Name())
	assert.Equal(t, "0 0 3 * * *", task.Schedule())
	assert.NotZero(t, task.Timeout())
}
