package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// MailRepository handles internal mail, labels and attachment metadata.
type MailRepository struct {
	db *sql.DB
}

// NewMailRepository creates a new mail repository.
func NewMailRepository(db *sql.DB) *MailRepository {
	return &MailRepository{db: db}
}

const mailColumns = `id, sender_id, recipient_id, subject, content, is_read,
	is_starred, is_important, is_spam, is_trash, thread_id, reply_to_id,
	created_at, updated_at`

// Create inserts a mail. A reply inherits the thread of its parent; a fresh
// message starts a thread keyed by its own ID.
func (r *MailRepository) Create(ctx context.Context, m *models.Mail) (*models.Mail, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.ThreadID == "" {
		m.ThreadID = m.ID
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO mails (id, sender_id, recipient_id, subject, content, is_read,
			is_starred, is_important, is_spam, is_trash, thread_id, reply_to_id,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, FALSE, FALSE, FALSE, FALSE, FALSE, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.SenderID, m.RecipientID, m.Subject, m.Content,
		m.ThreadID, nullable(m.ReplyToID), now, now,
	)
	if err != nil {
		return nil, err
	}

	for _, label := range m.Labels {
		if err := r.AddLabel(ctx, m.ID, label); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GetByID retrieves a mail with its labels and attachment metadata.
func (r *MailRepository) GetByID(ctx context.Context, id string) (*models.Mail, error) {
	query := database.ConvertPlaceholders(`SELECT ` + mailColumns + ` FROM mails WHERE id = ?`)
	m, err := scanMail(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if m.Labels, err = r.labels(ctx, id); err != nil {
		return nil, err
	}
	if m.Attachments, err = r.attachments(ctx, id); err != nil {
		return nil, err
	}
	return m, nil
}

// ListInbox returns a page of non-trash, non-spam mail received by the user.
func (r *MailRepository) ListInbox(ctx context.Context, userID string, page, perPage int) ([]*models.Mail, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT ` + mailColumns + ` FROM mails
		WHERE recipient_id = ? AND is_trash = FALSE AND is_spam = FALSE
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	return r.list(ctx, query, userID, limit, offset)
}

// ListSent returns a page of mail sent by the user.
func (r *MailRepository) ListSent(ctx context.Context, userID string, page, perPage int) ([]*models.Mail, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT ` + mailColumns + ` FROM mails
		WHERE sender_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	return r.list(ctx, query, userID, limit, offset)
}

// ListThread returns every mail in a thread, oldest first.
func (r *MailRepository) ListThread(ctx context.Context, threadID string) ([]*models.Mail, error) {
	query := database.ConvertPlaceholders(`
		SELECT ` + mailColumns + ` FROM mails
		WHERE thread_id = ?
		ORDER BY created_at ASC
	`)
	return r.list(ctx, query, threadID)
}

// MailFlag names a toggleable mail flag column.
type MailFlag string

// Toggleable mail flags.
const (
	FlagRead      MailFlag = "is_read"
	FlagStarred   MailFlag = "is_starred"
	FlagImportant MailFlag = "is_important"
	FlagSpam      MailFlag = "is_spam"
	FlagTrash     MailFlag = "is_trash"
)

// SetFlag flips one of the fixed flag columns. The flag name is restricted to
// the MailFlag constants, never caller input.
func (r *MailRepository) SetFlag(ctx context.Context, id string, flag MailFlag, value bool) error {
	switch flag {
	case FlagRead, FlagStarred, FlagImportant, FlagSpam, FlagTrash:
	default:
		return sql.ErrNoRows
	}
	query := database.ConvertPlaceholders(
		`UPDATE mails SET ` + string(flag) + ` = ?, updated_at = ? WHERE id = ?`,
	)
	result, err := r.db.ExecContext(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// AddLabel attaches a free-text label to a mail.
func (r *MailRepository) AddLabel(ctx context.Context, mailID, label string) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO mail_labels (id, mail_id, label, created_at)
		VALUES (?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), mailID, label, time.Now().UTC())
	return err
}

// RemoveLabel detaches a label from a mail.
func (r *MailRepository) RemoveLabel(ctx context.Context, mailID, label string) error {
	query := database.ConvertPlaceholders(`
		DELETE FROM mail_labels WHERE mail_id = ? AND label = ?
	`)
	_, err := r.db.ExecContext(ctx, query, mailID, label)
	return err
}

// AddAttachment stores attachment metadata for an externally stored file.
func (r *MailRepository) AddAttachment(ctx context.Context, a *models.MailAttachment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	query := database.ConvertPlaceholders(`
		INSERT INTO mail_attachments (id, mail_id, file_name, file_size, content_type, storage_key, public_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.MailID, a.FileName, a.FileSize, a.ContentType, a.StorageKey, a.PublicURL, a.CreatedAt,
	)
	return err
}

func (r *MailRepository) labels(ctx context.Context, mailID string) ([]string, error) {
	query := database.ConvertPlaceholders(`SELECT label FROM mail_labels WHERE mail_id = ? ORDER BY created_at`)
	rows, err := r.db.QueryContext(ctx, query, mailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *MailRepository) attachments(ctx context.Context, mailID string) ([]models.MailAttachment, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, mail_id, file_name, file_size, content_type, storage_key, public_url, created_at
		FROM mail_attachments WHERE mail_id = ? ORDER BY created_at
	`)
	rows, err := r.db.QueryContext(ctx, query, mailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.MailAttachment
	for rows.Next() {
		a := models.MailAttachment{}
		var contentType, publicURL sql.NullString
		err := rows.Scan(&a.ID, &a.MailID, &a.FileName, &a.FileSize, &contentType, &a.StorageKey, &publicURL, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		a.ContentType = contentType.String
		a.PublicURL = publicURL.String
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *MailRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Mail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mails []*models.Mail
	for rows.Next() {
		m, err := scanMail(rows)
		if err != nil {
			return nil, err
		}
		mails = append(mails, m)
	}
	return mails, rows.Err()
}

func scanMail(row rowScanner) (*models.Mail, error) {
	m := &models.Mail{}
	var content, threadID, replyTo sql.NullString
	err := row.Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &content, &m.IsRead,
		&m.IsStarred, &m.IsImportant, &m.IsSpam, &m.IsTrash, &threadID, &replyTo,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Content = content.String
	m.ThreadID = threadID.String
	m.ReplyToID = replyTo.String
	return m, nil
}
