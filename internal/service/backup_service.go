package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

// SharingDispatcher posts backup share events to external webhook endpoints.
type SharingDispatcher interface {
	SharingEvent(ctx context.Context, backupType string, owner, recipient *models.User)
}

// BackupService handles prompt and workflow snapshots and their share grants.
// Snapshots are immutable; version chains only point backwards.
type BackupService struct {
	backups    *repository.BackupRepository
	users      *repository.UserRepository
	dispatcher SharingDispatcher
	notifier   Notifier
	logger     *log.Logger
}

// NewBackupService creates a backup service.
func NewBackupService(backups *repository.BackupRepository, users *repository.UserRepository, dispatcher SharingDispatcher, notifier Notifier) *BackupService {
	return &BackupService{
		backups:    backups,
		users:      users,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     log.New(log.Writer(), "[BACKUP] ", log.LstdFlags),
	}
}

// CreatePromptBackup saves an AI prompt snapshot, guarding the version chain:
// previous_version_id must reference an existing prompt backup of the same
// owner.
func (s *BackupService) CreatePromptBackup(ctx context.Context, b *models.AIPromptBackup) (*models.AIPromptBackup, error) {
	if b.PreviousVersionID != "" {
		prev, err := s.backups.GetPromptBackup(ctx, b.PreviousVersionID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadVersionChain
		}
		if err != nil {
			return nil, err
		}
		if prev.UserID != b.UserID {
			return nil, ErrBadVersionChain
		}
	}
	return s.backups.CreatePromptBackup(ctx, b)
}

// CreateWorkflowBackup saves an n8n workflow snapshot with the same chain
// guard.
func (s *BackupService) CreateWorkflowBackup(ctx context.Context, b *models.N8NProjectBackup) (*models.N8NProjectBackup, error) {
	if b.PreviousVersionID != "" {
		prev, err := s.backups.GetWorkflowBackup(ctx, b.PreviousVersionID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadVersionChain
		}
		if err != nil {
			return nil, err
		}
		if prev.UserID != b.UserID {
			return nil, ErrBadVersionChain
		}
	}
	return s.backups.CreateWorkflowBackup(ctx, b)
}

// ListPromptBackups returns the user's prompt snapshots.
func (s *BackupService) ListPromptBackups(ctx context.Context, userID string, page, perPage int) ([]*models.AIPromptBackup, error) {
	return s.backups.ListPromptBackups(ctx, userID, page, perPage)
}

// ListWorkflowBackups returns the user's workflow snapshots.
func (s *BackupService) ListWorkflowBackups(ctx context.Context, userID string, page, perPage int) ([]*models.N8NProjectBackup, error) {
	return s.backups.ListWorkflowBackups(ctx, userID, page, perPage)
}

// ListSharedWithMe returns grants where the user is the recipient.
func (s *BackupService) ListSharedWithMe(ctx context.Context, userID string) ([]*models.BackupShare, error) {
	return s.backups.ListSharesForUser(ctx, userID)
}

// Share grants another user access to a backup and fans out the sharing
// webhook plus a notification to the grantee.
func (s *BackupService) Share(ctx context.Context, backupID, backupType, ownerID, recipientID, accessRole string) (*models.BackupShare, error) {
	if !models.ValidAccessRole(accessRole) {
		return nil, ErrInvalidShareRole
	}

	switch backupType {
	case models.BackupTypePrompt:
		b, err := s.backups.GetPromptBackup(ctx, backupID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if b.UserID != ownerID {
			return nil, ErrNotCreator
		}
	case models.BackupTypeN8NWorkflow:
		b, err := s.backups.GetWorkflowBackup(ctx, backupID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if b.UserID != ownerID {
			return nil, ErrNotCreator
		}
	default:
		return nil, ErrNotFound
	}

	share, err := s.backups.CreateShare(ctx, &models.BackupShare{
		BackupID:   backupID,
		BackupType: backupType,
		OwnerID:    ownerID,
		SharedWith: recipientID,
		AccessRole: accessRole,
	})
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		s.logger.Printf("failed to load share owner %s: %v", ownerID, err)
		owner = nil
	}
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		s.logger.Printf("failed to load share recipient %s: %v", recipientID, err)
		recipient = nil
	}

	s.dispatcher.SharingEvent(ctx, backupType, owner, recipient)

	kind := "AI prompt"
	if backupType == models.BackupTypeN8NWorkflow {
		kind = "n8n workflow"
	}
	ownerName := ownerID
	if owner != nil {
		ownerName = owner.FullName
	}
	s.notifier.Create(ctx, recipientID, models.NotificationBackupShared,
		"Backup Shared With You",
		fmt.Sprintf("%s shared an %s backup with you.", ownerName, kind),
		"/backups/shared",
	)

	return share, nil
}
