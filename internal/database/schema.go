package database

import "database/sql"

// EnsureSchema creates all application tables if they do not exist. The DDL
// is idempotent so it is safe to run on every startup.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func schemaStatements() []string {
	text := "TEXT"
	bool_ := "BOOLEAN"
	ts := "TIMESTAMP"
	if IsMySQL() {
		ts = "DATETIME"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			full_name VARCHAR(255) NOT NULL,
			avatar_url VARCHAR(1024),
			username VARCHAR(255),
			telegram VARCHAR(255),
			telegram_chat_id VARCHAR(64),
			role VARCHAR(16) NOT NULL DEFAULT 'worker',
			approval_status VARCHAR(16) NOT NULL DEFAULT 'pending',
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id VARCHAR(64) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			urgency VARCHAR(16) NOT NULL,
			details ` + text + `,
			deadline ` + ts + ` NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'new',
			assigned_to VARCHAR(64) NOT NULL,
			created_by VARCHAR(64) NOT NULL,
			solution_type VARCHAR(32),
			solution_data ` + text + `,
			output_result ` + text + `,
			edited ` + bool_ + ` NOT NULL DEFAULT FALSE,
			user_notified ` + bool_ + ` NOT NULL DEFAULT FALSE,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ai_prompt_backups (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			prompt_text ` + text + ` NOT NULL,
			description ` + text + `,
			previous_version_id VARCHAR(64),
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS n8n_project_backups (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			workflow_json ` + text + ` NOT NULL,
			filename VARCHAR(255),
			description ` + text + `,
			previous_version_id VARCHAR(64),
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS backup_shares (
			id VARCHAR(64) PRIMARY KEY,
			backup_id VARCHAR(64) NOT NULL,
			backup_type VARCHAR(32) NOT NULL,
			owner_id VARCHAR(64) NOT NULL,
			shared_with VARCHAR(64) NOT NULL,
			access_role VARCHAR(16) NOT NULL DEFAULT 'viewer',
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description ` + text + `,
			status VARCHAR(32) NOT NULL DEFAULT 'active',
			priority VARCHAR(16) NOT NULL DEFAULT 'medium',
			progress INTEGER NOT NULL DEFAULT 0,
			created_by VARCHAR(64),
			assigned_to VARCHAR(64),
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR(64) PRIMARY KEY,
			number VARCHAR(64) NOT NULL,
			amount DECIMAL(12,2) NOT NULL,
			currency VARCHAR(8) NOT NULL DEFAULT 'EUR',
			status VARCHAR(32) NOT NULL DEFAULT 'draft',
			client_id VARCHAR(64),
			project_id VARCHAR(64),
			created_by VARCHAR(64),
			pdf_url VARCHAR(1024),
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mails (
			id VARCHAR(64) PRIMARY KEY,
			sender_id VARCHAR(64) NOT NULL,
			recipient_id VARCHAR(64) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			content ` + text + `,
			is_read ` + bool_ + ` NOT NULL DEFAULT FALSE,
			is_starred ` + bool_ + ` NOT NULL DEFAULT FALSE,
			is_important ` + bool_ + ` NOT NULL DEFAULT FALSE,
			is_spam ` + bool_ + ` NOT NULL DEFAULT FALSE,
			is_trash ` + bool_ + ` NOT NULL DEFAULT FALSE,
			thread_id VARCHAR(64),
			reply_to_id VARCHAR(64),
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mail_labels (
			id VARCHAR(64) PRIMARY KEY,
			mail_id VARCHAR(64) NOT NULL,
			label VARCHAR(64) NOT NULL,
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mail_attachments (
			id VARCHAR(64) PRIMARY KEY,
			mail_id VARCHAR(64) NOT NULL,
			file_name VARCHAR(255) NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			content_type VARCHAR(255),
			storage_key VARCHAR(1024) NOT NULL,
			public_url VARCHAR(1024),
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			type VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message ` + text + `,
			redirect_path VARCHAR(1024),
			is_read ` + bool_ + ` NOT NULL DEFAULT FALSE,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notification_settings (
			user_id VARCHAR(64) PRIMARY KEY,
			tickets_enabled ` + bool_ + ` NOT NULL DEFAULT TRUE,
			users_enabled ` + bool_ + ` NOT NULL DEFAULT TRUE,
			mails_enabled ` + bool_ + ` NOT NULL DEFAULT TRUE,
			projects_enabled ` + bool_ + ` NOT NULL DEFAULT TRUE,
			invoices_enabled ` + bool_ + ` NOT NULL DEFAULT TRUE,
			system_enabled ` + bool_ + ` NOT NULL DEFAULT TRUE,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS system_settings (
			setting_key VARCHAR(128) PRIMARY KEY,
			setting_value ` + text + `,
			value_type VARCHAR(16) NOT NULL DEFAULT 'string',
			updated_at ` + ts + ` NOT NULL
		)`,
	}
}
