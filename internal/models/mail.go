package models

import "time"

// Mail is an internal message between two users. Attachments live in object
// storage and are referenced by metadata rows.
type Mail struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content,omitempty"`
	IsRead      bool      `json:"is_read"`
	IsStarred   bool      `json:"is_starred"`
	IsImportant bool      `json:"is_important"`
	IsSpam      bool      `json:"is_spam"`
	IsTrash     bool      `json:"is_trash"`
	ThreadID    string    `json:"thread_id,omitempty"`
	ReplyToID   string    `json:"reply_to_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Labels      []string         `json:"labels,omitempty"`
	Attachments []MailAttachment `json:"attachments,omitempty"`
}

// MailAttachment references an externally stored file.
type MailAttachment struct {
	ID          string    `json:"id"`
	MailID      string    `json:"mail_id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type,omitempty"`
	StorageKey  string    `json:"storage_key"`
	PublicURL   string    `json:"public_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
