package models

import "time"

// Well-known system setting keys. Which webhook keys are populated selects
// the active webhook configuration scheme.
const (
	// Legacy webhook scheme: single base URL plus one path per category.
	SettingWebhookBaseURL     = "webhook_base_url"
	SettingWebhookTicketsPath = "webhook_tickets_path"
	SettingWebhookUsersPath   = "webhook_users_path"

	// Current webhook scheme: domain plus a path keyed by action category.
	SettingWebhookDomain           = "webhook_domain"
	SettingWebhookPathTickets      = "webhook_path_tickets"
	SettingWebhookPathUsers        = "webhook_path_users"
	SettingWebhookPathMails        = "webhook_path_mails"
	SettingWebhookPathProjects     = "webhook_path_projects"
	SettingWebhookPathInvoices     = "webhook_path_invoices"
	SettingWebhookPathNotification = "webhook_path_notifications"

	SettingTelegramBotToken      = "telegram_bot_token"
	SettingTelegramWebhookSecret = "telegram_webhook_secret"
	SettingMaintenanceMode       = "maintenance_mode"
	SettingRegistrationOpen      = "registration_open"
	SettingMaxFileSize           = "max_file_size"
	SettingNotificationRetention = "notification_retention_days"
)

// SystemSetting is a flat key/value row read at request time, uncached.
type SystemSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	ValueType string    `json:"value_type"`
	UpdatedAt time.Time `json:"updated_at"`
}
