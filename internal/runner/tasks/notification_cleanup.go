// Package tasks provides background task implementations for the runner.
package tasks

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/runner"
)

// Read notifications older than this are removed unless the retention
// setting overrides it.
const defaultRetentionDays = 90

// NotificationCleanupTask prunes old read notifications so the inbox table
// does not grow without bound.
type NotificationCleanupTask struct {
	notifications *repository.NotificationRepository
	settings      *repository.SettingsRepository
	logger        *log.Logger
}

// NewNotificationCleanupTask creates the cleanup task.
func NewNotificationCleanupTask(db *sql.DB) runner.Task {
	return &NotificationCleanupTask{
		notifications: repository.NewNotificationRepository(db),
		settings:      repository.NewSettingsRepository(db),
		logger:        log.New(log.Writer(), "[CLEANUP] ", log.LstdFlags),
	}
}

// Name returns the task name.
func (t *NotificationCleanupTask) Name() string {
	return "notification-cleanup"
}

// Schedule runs the task daily at 03:00.
func (t *NotificationCleanupTask) Schedule() string {
	return "0 0 3 * * *"
}

// Timeout returns the task timeout.
func (t *NotificationCleanupTask) Timeout() time.Duration {
	return 2 * time.Minute
}

// Run deletes read notifications older than the configured retention window.
// Unread notifications are never touched.
func (t *NotificationCleanupTask) Run(ctx context.Context) error {
	days, err := t.settings.GetInt(ctx, models.SettingNotificationRetention, defaultRetentionDays)
	if err != nil {
		t.logger.Printf("failed to read retention setting, using %d days: %v", defaultRetentionDays, err)
		days = defaultRetentionDays
	}
	if days < 1 {
		days = defaultRetentionDays
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	removed, err := t.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if removed == 0 {
		t.logger.Println("no notifications past retention")
	} else {
		t.logger.Printf("removed %d read notifications older than %d days", removed, days)
	}
	return nil
}
