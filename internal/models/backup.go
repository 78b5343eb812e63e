package models

import "time"

// Backup type discriminators used by share grants and the version-chain guard.
const (
	BackupTypePrompt      = "ai_prompt"
	BackupTypeN8NWorkflow = "n8n_project"
)

// Share access roles.
const (
	AccessViewer = "viewer"
	AccessEditor = "editor"
)

// AIPromptBackup is an immutable snapshot of an AI prompt owned by a user.
// PreviousVersionID, when set, points to a strictly earlier backup of the
// same owner and type, forming a backward-linked version chain.
type AIPromptBackup struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Title             string    `json:"title"`
	PromptText        string    `json:"prompt_text"`
	Description       string    `json:"description,omitempty"`
	PreviousVersionID string    `json:"previous_version_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// N8NProjectBackup is an immutable snapshot of an n8n workflow export.
type N8NProjectBackup struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Title             string    `json:"title"`
	WorkflowJSON      string    `json:"workflow_json"`
	Filename          string    `json:"filename,omitempty"`
	Description       string    `json:"description,omitempty"`
	PreviousVersionID string    `json:"previous_version_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BackupShare grants another user access to a backup.
type BackupShare struct {
	ID         string    `json:"id"`
	BackupID   string    `json:"backup_id"`
	BackupType string    `json:"backup_type"`
	OwnerID    string    `json:"owner_id"`
	SharedWith string    `json:"shared_with"`
	AccessRole string    `json:"access_role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidAccessRole reports whether role is a known share access role.
func ValidAccessRole(role string) bool {
	return role == AccessViewer || role == AccessEditor
}
