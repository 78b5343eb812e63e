package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// UserRepository handles database operations for users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, avatar_url, username, telegram,
	telegram_chat_id, role, approval_status, created_at, updated_at`

// Upsert creates the user on first sign-in or refreshes profile fields from
// the auth provider on subsequent sign-ins. Role and approval status are
// never touched here; only an admin mutates those.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()

	existing, err := r.GetByID(ctx, user.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if existing == nil {
		if user.Role == "" {
			user.Role = models.RoleWorker
		}
		if user.ApprovalStatus == "" {
			user.ApprovalStatus = models.ApprovalPending
		}
		query := database.ConvertPlaceholders(`
			INSERT INTO users (id, email, full_name, avatar_url, username, telegram,
				telegram_chat_id, role, approval_status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		_, err := r.db.ExecContext(ctx, query,
			user.ID, user.Email, user.FullName, user.AvatarURL, user.Username,
			user.Telegram, user.TelegramChatID, user.Role, user.ApprovalStatus, now, now,
		)
		if err != nil {
			return nil, err
		}
		return r.GetByID(ctx, user.ID)
	}

	query := database.ConvertPlaceholders(`
		UPDATE users SET email = ?, full_name = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?
	`)
	if _, err := r.db.ExecContext(ctx, query, user.Email, user.FullName, user.AvatarURL, now, user.ID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, user.ID)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := database.ConvertPlaceholders(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := database.ConvertPlaceholders(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByTelegramChatID retrieves a user by their Telegram chat ID.
func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID string) (*models.User, error) {
	query := database.ConvertPlaceholders(`SELECT ` + userColumns + ` FROM users WHERE telegram_chat_id = ?`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, chatID))
}

// List returns a bounded page of users ordered by creation time.
func (r *UserRepository) List(ctx context.Context, page, perPage int) ([]*models.User, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT ` + userColumns + ` FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetApprovalStatus decides a pending user. The WHERE clause restricts the
// update to still-pending rows so a duplicate decision affects zero rows.
func (r *UserRepository) SetApprovalStatus(ctx context.Context, id, status string) error {
	query := database.ConvertPlaceholders(`
		UPDATE users SET approval_status = ?, updated_at = ?
		WHERE id = ? AND approval_status = ?
	`)
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id, models.ApprovalPending)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// SetRole changes the user's role.
func (r *UserRepository) SetRole(ctx context.Context, id, role string) error {
	query := database.ConvertPlaceholders(`
		UPDATE users SET role = ?, updated_at = ? WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, role, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// SetTelegram stores the user's Telegram handle and chat ID.
func (r *UserRepository) SetTelegram(ctx context.Context, id, handle, chatID string) error {
	query := database.ConvertPlaceholders(`
		UPDATE users SET telegram = ?, telegram_chat_id = ?, updated_at = ? WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, handle, chatID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	return scanUser(row)
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var avatar, username, telegram, chatID sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &avatar, &username, &telegram,
		&chatID, &u.Role, &u.ApprovalStatus, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.AvatarURL = avatar.String
	u.Username = username.String
	u.Telegram = telegram.String
	u.TelegramChatID = chatID.String
	return u, nil
}
