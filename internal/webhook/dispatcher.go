// Package webhook posts action payloads to the configured external
// endpoints. Delivery is fire-and-forget: one attempt, a bounded timeout,
// and a boolean outcome. Failures are logged and never surfaced to callers.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

const userAgent = "PromptDesk-Webhook/1.0"

// The upstream system had no timeout on outbound posts; a hanging endpoint
// would hold the handler open. A bounded timeout is the one hardening applied.
const defaultTimeout = 10 * time.Second

// Dispatcher resolves endpoint configuration from system settings and posts
// payloads. Both configuration schemes coexist: the legacy single base URL
// and the current domain plus path-per-category. Which keys are populated
// selects the active scheme(s).
type Dispatcher struct {
	settings      *repository.SettingsRepository
	notifications *repository.NotificationRepository
	client        *http.Client
	logger        *log.Logger
}

// NewDispatcher creates a dispatcher with the default HTTP timeout.
func NewDispatcher(settings *repository.SettingsRepository, notifications *repository.NotificationRepository) *Dispatcher {
	return &Dispatcher{
		settings:      settings,
		notifications: notifications,
		client:        &http.Client{Timeout: defaultTimeout},
		logger:        log.New(log.Writer(), "[WEBHOOK] ", log.LstdFlags),
	}
}

// Send performs a single HTTP POST of the JSON-encoded payload. It returns
// false on an empty or malformed URL, a network error, or a non-2xx status.
// It never returns an error and never panics.
func (d *Dispatcher) Send(ctx context.Context, endpoint string, payload interface{}) bool {
	ok := d.send(ctx, endpoint, payload)
	recordDelivery(ok)
	return ok
}

func (d *Dispatcher) send(ctx context.Context, endpoint string, payload interface{}) bool {
	if strings.TrimSpace(endpoint) == "" {
		d.logger.Printf("skipping delivery: empty webhook URL")
		return false
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		d.logger.Printf("skipping delivery: malformed webhook URL %q", endpoint)
		return false
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Printf("failed to encode payload for %s: %v", endpoint, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		d.logger.Printf("failed to build request for %s: %v", endpoint, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Printf("delivery to %s failed: %v", endpoint, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Printf("delivery to %s returned HTTP %d", endpoint, resp.StatusCode)
		return false
	}

	d.logger.Printf("delivered %s webhook to %s", actionOf(payload), endpoint)
	return true
}

// TicketEvent posts a ticket lifecycle event through every configured scheme.
func (d *Dispatcher) TicketEvent(ctx context.Context, verb string, ticket *models.Ticket) {
	if endpoint := d.legacyURL(ctx, models.SettingWebhookTicketsPath); endpoint != "" {
		d.Send(ctx, endpoint, NewLegacyTicketPayload(verb, ticket))
	}
	if endpoint := d.currentURL(ctx, CategoryTickets); endpoint != "" {
		payload := NewTicketPayload(verb, ticket)
		d.attachToggles(ctx, payload)
		d.Send(ctx, endpoint, payload)
	}
}

// SharingEvent posts a backup share event.
func (d *Dispatcher) SharingEvent(ctx context.Context, backupType string, owner, recipient *models.User) {
	if endpoint := d.legacyURL(ctx, models.SettingWebhookUsersPath); endpoint != "" {
		d.Send(ctx, endpoint, NewLegacySharingPayload(backupType, owner, recipient))
	}
	if endpoint := d.currentURL(ctx, CategoryUsers); endpoint != "" {
		payload := &Payload{Action: ActionPromptShared}
		if backupType == models.BackupTypeN8NWorkflow {
			payload.Action = ActionWorkflowShared
		}
		if owner != nil {
			payload.CreatorID = strPtr(owner.ID)
			payload.CreatorEmail = strPtr(owner.Email)
			payload.CreatorName = strPtr(owner.FullName)
		}
		if recipient != nil {
			payload.UserID = strPtr(recipient.ID)
			payload.UserEmail = strPtr(recipient.Email)
			payload.UserName = strPtr(recipient.FullName)
		}
		d.Send(ctx, endpoint, payload)
	}
}

// MailEvent posts an internal mail delivery through the current scheme. The
// legacy scheme never carried mail traffic.
func (d *Dispatcher) MailEvent(ctx context.Context, mail *models.Mail) {
	if endpoint := d.currentURL(ctx, CategoryMails); endpoint != "" {
		d.Send(ctx, endpoint, NewMailPayload(mail))
	}
}

// ProjectEvent posts a project lifecycle event through the current scheme.
func (d *Dispatcher) ProjectEvent(ctx context.Context, verb string, project *models.Project) {
	if endpoint := d.currentURL(ctx, CategoryProjects); endpoint != "" {
		d.Send(ctx, endpoint, NewProjectPayload(verb, project))
	}
}

// InvoiceEvent posts an invoice lifecycle event through the current scheme.
func (d *Dispatcher) InvoiceEvent(ctx context.Context, verb string, invoice *models.Invoice) {
	if endpoint := d.currentURL(ctx, CategoryInvoices); endpoint != "" {
		d.Send(ctx, endpoint, NewInvoicePayload(verb, invoice))
	}
}

// NotificationEvent mirrors an in-app notification write through the current
// scheme.
func (d *Dispatcher) NotificationEvent(ctx context.Context, n *models.Notification) {
	if endpoint := d.currentURL(ctx, CategoryNotifications); endpoint != "" {
		d.Send(ctx, endpoint, NewNotificationPayload(n))
	}
}

// RoleChangeEvent posts a user role change through the current scheme.
func (d *Dispatcher) RoleChangeEvent(ctx context.Context, user *models.User) {
	endpoint := d.currentURL(ctx, CategoryUsers)
	if endpoint == "" {
		return
	}
	payload := NewRoleChangePayload(user)
	d.attachToggles(ctx, payload)
	d.Send(ctx, endpoint, payload)
}

// attachToggles augments ticket and role-change payloads with the target
// user's per-category notification settings. Applied only when a user_id is
// present and no notification block was already provided; a missing settings
// row defaults to all-enabled.
func (d *Dispatcher) attachToggles(ctx context.Context, payload *Payload) {
	if payload.UserID == nil || payload.Notifications != nil {
		return
	}
	settings, err := d.notifications.GetSettings(ctx, *payload.UserID)
	if err != nil {
		d.logger.Printf("failed to load notification settings for %s: %v", *payload.UserID, err)
		settings = models.DefaultNotificationSettings(*payload.UserID)
	}
	payload.Notifications = TogglesFromSettings(settings)
}

// legacyURL concatenates the legacy base URL with the per-category path.
// Returns "" when the legacy scheme is not configured. Both the base and the
// path row must be present; a half-configured profile skips delivery rather
// than posting to the bare base URL.
func (d *Dispatcher) legacyURL(ctx context.Context, pathKey string) string {
	base, err := d.settings.Get(ctx, models.SettingWebhookBaseURL)
	if err != nil || base == "" {
		return ""
	}
	path, err := d.settings.Get(ctx, pathKey)
	if err != nil || path == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + path
}

// currentURL concatenates the current-scheme domain with the path registered
// for the action category. Returns "" when the scheme is not configured.
func (d *Dispatcher) currentURL(ctx context.Context, category string) string {
	domain, err := d.settings.Get(ctx, models.SettingWebhookDomain)
	if err != nil || domain == "" {
		return ""
	}
	path, err := d.settings.Get(ctx, categoryPathKey(category))
	if err != nil || path == "" {
		return ""
	}
	return strings.TrimSuffix(domain, "/") + path
}

func categoryPathKey(category string) string {
	switch category {
	case CategoryTickets:
		return models.SettingWebhookPathTickets
	case CategoryUsers:
		return models.SettingWebhookPathUsers
	case CategoryMails:
		return models.SettingWebhookPathMails
	case CategoryProjects:
		return models.SettingWebhookPathProjects
	case CategoryInvoices:
		return models.SettingWebhookPathInvoices
	case CategoryNotifications:
		return models.SettingWebhookPathNotification
	}
	return ""
}

func actionOf(payload interface{}) string {
	switch p := payload.(type) {
	case *Payload:
		return p.Action
	case *LegacyTicketPayload:
		return p.Action
	}
	return "unknown"
}
