package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/storage"
)

// mailEvents posts mail deliveries to external webhook endpoints.
type mailEvents interface {
	MailEvent(ctx context.Context, mail *models.Mail)
}

// MailService handles internal messaging with optional file attachments.
type MailService struct {
	mails      *repository.MailRepository
	storage    *storage.Client
	dispatcher mailEvents
	logger     *log.Logger
}

// NewMailService creates a mail service.
func NewMailService(mails *repository.MailRepository, store *storage.Client, dispatcher mailEvents) *MailService {
	return &MailService{
		mails:      mails,
		storage:    store,
		dispatcher: dispatcher,
		logger:     log.New(log.Writer(), "[MAIL] ", log.LstdFlags),
	}
}

// AttachmentInput carries an uploaded file destined for object storage.
type AttachmentInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Send persists a mail. A reply inherits its parent's thread. Attachments go
// to object storage first; their metadata rows reference the stored object.
func (s *MailService) Send(ctx context.Context, m *models.Mail, attachments []AttachmentInput) (*models.Mail, error) {
	if m.ReplyToID != "" {
		parent, err := s.mails.GetByID(ctx, m.ReplyToID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		m.ThreadID = parent.ThreadID
	}

	created, err := s.mails.Create(ctx, m)
	if err != nil {
		return nil, err
	}

	for _, att := range attachments {
		key := storage.AttachmentKey(created.ID, att.FileName)
		publicURL, err := s.storage.Upload(ctx, storage.BucketAttachments, key, att.ContentType, att.Data)
		if err != nil {
			// The mail itself stands; a failed upload just drops the attachment.
			s.logger.Printf("failed to store attachment %s for mail %s: %v", att.FileName, created.ID, err)
			continue
		}
		meta := &models.MailAttachment{
			MailID:      created.ID,
			FileName:    att.FileName,
			FileSize:    int64(len(att.Data)),
			ContentType: att.ContentType,
			StorageKey:  key,
			PublicURL:   publicURL,
		}
		if err := s.mails.AddAttachment(ctx, meta); err != nil {
			s.logger.Printf("failed to record attachment %s for mail %s: %v", att.FileName, created.ID, err)
			continue
		}
		created.Attachments = append(created.Attachments, *meta)
	}

	s.dispatcher.MailEvent(ctx, created)

	return created, nil
}

// Get returns one mail with labels and attachments.
func (s *MailService) Get(ctx context.Context, id string) (*models.Mail, error) {
	m, err := s.mails.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// Inbox returns a page of the user's received mail.
func (s *MailService) Inbox(ctx context.Context, userID string, page, perPage int) ([]*models.Mail, error) {
	return s.mails.ListInbox(ctx, userID, page, perPage)
}

// Sent returns a page of the user's sent mail.
func (s *MailService) Sent(ctx context.Context, userID string, page, perPage int) ([]*models.Mail, error) {
	return s.mails.ListSent(ctx, userID, page, perPage)
}

// Thread returns every mail in a thread, oldest first.
func (s *MailService) Thread(ctx context.Context, threadID string) ([]*models.Mail, error) {
	return s.mails.ListThread(ctx, threadID)
}

// SetFlag flips one of the fixed mail flags.
func (s *MailService) SetFlag(ctx context.Context, id string, flag repository.MailFlag, value bool) error {
	err := s.mails.SetFlag(ctx, id, flag, value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// AddLabel attaches a free-text label.
func (s *MailService) AddLabel(ctx context.Context, id, label string) error {
	return s.mails.AddLabel(ctx, id, label)
}

// RemoveLabel detaches a label.
func (s *MailService) RemoveLabel(ctx context.Context, id, label string) error {
	return s.mails.RemoveLabel(ctx, id, label)
}
