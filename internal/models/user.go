// Package models defines the persistent data structures of the application.
package models

import "time"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
	RoleViewer = "viewer"
)

// Approval statuses. New users start as pending until an admin decides.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// User is an identity record keyed by the opaque ID issued by the external
// auth provider. Created on first sign-in; never hard-deleted.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Username       string    `json:"username,omitempty"`
	Telegram       string    `json:"telegram,omitempty"`
	TelegramChatID string    `json:"telegram_chat_id,omitempty"`
	Role           string    `json:"role"`
	ApprovalStatus string    `json:"approval_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleWorker, RoleViewer:
		return true
	}
	return false
}
