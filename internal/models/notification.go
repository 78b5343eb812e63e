package models

import "time"

// Notification types written by the lifecycle services.
const (
	NotificationTicketAssigned  = "ticket_assigned"
	NotificationTicketInWork    = "ticket_in_work"
	NotificationTicketSolved    = "ticket_solved"
	NotificationBackupShared    = "backup_shared"
	NotificationRoleChanged     = "role_changed"
	NotificationAccountApproved = "account_approved"
)

// Notification is a per-user inbox row. Read/unread is the only mutation.
type Notification struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message,omitempty"`
	RedirectPath string    `json:"redirect_path,omitempty"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NotificationSettings holds per-user, per-category delivery toggles.
// A missing row means all categories enabled.
type NotificationSettings struct {
	UserID    string    `json:"user_id"`
	Tickets   bool      `json:"tickets"`
	Users     bool      `json:"users"`
	Mails     bool      `json:"mails"`
	Projects  bool      `json:"projects"`
	Invoices  bool      `json:"invoices"`
	System    bool      `json:"system"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultNotificationSettings returns the all-enabled defaults used when no
// row exists for the user.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:   userID,
		Tickets:  true,
		Users:    true,
		Mails:    true,
		Projects: true,
		Invoices: true,
		System:   true,
	}
}
