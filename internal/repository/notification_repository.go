package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// NotificationRepository handles in-app notification rows and the per-user
// delivery settings.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert writes one inbox row for the user.
func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO notifications (id, user_id, type, title, message, redirect_path, is_read, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.RedirectPath, now, now,
	)
	return err
}

// ListByUser returns a bounded page of the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]*models.Notification, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT id, user_id, type, title, message, redirect_path, is_read, created_at, updated_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var message, redirect sql.NullString
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &message, &redirect, &n.IsRead, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, err
		}
		n.Message = message.String
		n.RedirectPath = redirect.String
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread returns the user's unread notification count.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := database.ConvertPlaceholders(`
		SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE
	`)
	var count int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// MarkRead flags one notification as read. The user filter prevents marking
// other users' rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := database.ConvertPlaceholders(`
		UPDATE notifications SET is_read = TRUE, updated_at = ? WHERE id = ? AND user_id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, userID)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// MarkAllRead flags every unread notification of the user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := database.ConvertPlaceholders(`
		UPDATE notifications SET is_read = TRUE, updated_at = ? WHERE user_id = ? AND is_read = FALSE
	`)
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteReadOlderThan reaps read notifications created before the cutoff.
// Unread rows are never removed.
func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := database.ConvertPlaceholders(`
		DELETE FROM notifications WHERE is_read = TRUE AND created_at < ?
	`)
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetSettings returns the user's notification settings, or the all-enabled
// defaults when no row exists.
func (r *NotificationRepository) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	query := database.ConvertPlaceholders(`
		SELECT user_id, tickets_enabled, users_enabled, mails_enabled,
			projects_enabled, invoices_enabled, system_enabled, updated_at
		FROM notification_settings
		WHERE user_id = ?
	`)
	s := &models.NotificationSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.Tickets, &s.Users, &s.Mails,
		&s.Projects, &s.Invoices, &s.System, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSettings upserts the user's notification settings row.
func (r *NotificationRepository) SaveSettings(ctx context.Context, s *models.NotificationSettings) error {
	now := time.Now().UTC()

	update := database.ConvertPlaceholders(`
		UPDATE notification_settings
		SET tickets_enabled = ?, users_enabled = ?, mails_enabled = ?,
			projects_enabled = ?, invoices_enabled = ?, system_enabled = ?, updated_at = ?
		WHERE user_id = ?
	`)
	result, err := r.db.ExecContext(ctx, update,
		s.Tickets, s.Users, s.Mails, s.Projects, s.Invoices, s.System, now, s.UserID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insert := database.ConvertPlaceholders(`
		INSERT INTO notification_settings (user_id, tickets_enabled, users_enabled,
			mails_enabled, projects_enabled, invoices_enabled, system_enabled, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, insert,
		s.UserID, s.Tickets, s.Users, s.Mails, s.Projects, s.Invoices, s.System, now,
	)
	return err
}
