package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// BackupRepository handles AI prompt and n8n project backup snapshots plus
// their share grants. Backups are immutable after creation.
type BackupRepository struct {
	db *sql.DB
}

// NewBackupRepository creates a new backup repository.
func NewBackupRepository(db *sql.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// CreatePromptBackup inserts a new AI prompt snapshot.
func (r *BackupRepository) CreatePromptBackup(ctx context.Context, b *models.AIPromptBackup) (*models.AIPromptBackup, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO ai_prompt_backups (id, user_id, title, prompt_text, description, previous_version_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Title, b.PromptText, b.Description, nullable(b.PreviousVersionID), now, now,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetPromptBackup retrieves one AI prompt snapshot.
func (r *BackupRepository) GetPromptBackup(ctx context.Context, id string) (*models.AIPromptBackup, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, user_id, title, prompt_text, description, previous_version_id, created_at, updated_at
		FROM ai_prompt_backups WHERE id = ?
	`)
	b := &models.AIPromptBackup{}
	var description, prev sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Title, &b.PromptText, &description, &prev, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Description = description.String
	b.PreviousVersionID = prev.String
	return b, nil
}

// ListPromptBackups returns the user's AI prompt snapshots, newest first.
func (r *BackupRepository) ListPromptBackups(ctx context.Context, userID string, page, perPage int) ([]*models.AIPromptBackup, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT id, user_id, title, prompt_text, description, previous_version_id, created_at, updated_at
		FROM ai_prompt_backups
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []*models.AIPromptBackup
	for rows.Next() {
		b := &models.AIPromptBackup{}
		var description, prev sql.NullString
		err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.PromptText, &description, &prev, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		b.Description = description.String
		b.PreviousVersionID = prev.String
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// CreateWorkflowBackup inserts a new n8n workflow snapshot.
func (r *BackupRepository) CreateWorkflowBackup(ctx context.Context, b *models.N8NProjectBackup) (*models.N8NProjectBackup, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO n8n_project_backups (id, user_id, title, workflow_json, filename, description, previous_version_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Title, b.WorkflowJSON, b.Filename, b.Description, nullable(b.PreviousVersionID), now, now,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetWorkflowBackup retrieves one n8n workflow snapshot.
func (r *BackupRepository) GetWorkflowBackup(ctx context.Context, id string) (*models.N8NProjectBackup, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, user_id, title, workflow_json, filename, description, previous_version_id, created_at, updated_at
		FROM n8n_project_backups WHERE id = ?
	`)
	b := &models.N8NProjectBackup{}
	var filename, description, prev sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Title, &b.WorkflowJSON, &filename, &description, &prev, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Filename = filename.String
	b.Description = description.String
	b.PreviousVersionID = prev.String
	return b, nil
}

// ListWorkflowBackups returns the user's n8n snapshots, newest first.
func (r *BackupRepository) ListWorkflowBackups(ctx context.Context, userID string, page, perPage int) ([]*models.N8NProjectBackup, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT id, user_id, title, workflow_json, filename, description, previous_version_id, created_at, updated_at
		FROM n8n_project_backups
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []*models.N8NProjectBackup
	for rows.Next() {
		b := &models.N8NProjectBackup{}
		var filename, description, prev sql.NullString
		err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.WorkflowJSON, &filename, &description, &prev, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		b.Filename = filename.String
		b.Description = description.String
		b.PreviousVersionID = prev.String
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// CreateShare inserts a share grant for a backup.
func (r *BackupRepository) CreateShare(ctx context.Context, s *models.BackupShare) (*models.BackupShare, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO backup_shares (id, backup_id, backup_type, owner_id, shared_with, access_role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.BackupID, s.BackupType, s.OwnerID, s.SharedWith, s.AccessRole, now, now,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSharesForUser returns grants where the user is the recipient.
func (r *BackupRepository) ListSharesForUser(ctx context.Context, userID string) ([]*models.BackupShare, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, backup_id, backup_type, owner_id, shared_with, access_role, created_at, updated_at
		FROM backup_shares
		WHERE shared_with = ?
		ORDER BY created_at DESC
	`)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*models.BackupShare
	for rows.Next() {
		s := &models.BackupShare{}
		err := rows.Scan(&s.ID, &s.BackupID, &s.BackupType, &s.OwnerID, &s.SharedWith, &s.AccessRole, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

// nullable maps "" to NULL for optional foreign keys.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
