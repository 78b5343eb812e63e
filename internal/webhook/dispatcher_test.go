package webhook

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

func testDispatcher(settings *repository.SettingsRepository, notifications *repository.NotificationRepository) *Dispatcher {
	return &Dispatcher{
		settings:      settings,
		notifications: notifications,
		client:        http.DefaultClient,
		logger:        log.New(io.Discard, "", 0),
	}
}

func TestSendNeverErrors(t *testing.T) {
	d := testDispatcher(nil, nil)
	ctx := context.Background()

	assert.False(t, d.Send(ctx, "", &Payload{Action: "ticket_created"}))
	assert.False(t, d.Send(ctx, "   ", &Payload{Action: "ticket_created"}))
	assert.False(t, d.Send(ctx, "not-a-url", &Payload{Action: "ticket_created"}))
	assert.False(t, d.Send(ctx, "http://127.0.0.1:1/unreachable", &Payload{Action: "ticket_created"}))
}

func TestSendNon2xxIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	d := testDispatcher(nil, nil)
	assert.False(t, d.Send(context.Background(), server.URL, &Payload{Action: "ticket_created"}))
}

func TestSendPostsJSONOnce(t *testing.T) {
	var calls int
	var gotUA, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotUA = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := testDispatcher(nil, nil)
	ok := d.Send(context.Background(), server.URL, &Payload{Action: "ticket_solved"})
	require.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "PromptDesk-Webhook/1.0", gotUA)
	assert.Equal(t, "application/json", gotContentType)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "ticket_solved", decoded["action"])
}

func expectSetting(mock sqlmock.Sqlmock, key, value string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs(key).
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow(value))
}

func TestTicketEventDeliversThroughBothSchemes(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "mysql")

	var paths []string
	var actions []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var decoded map[string]interface{}
		_ = json.Unmarshal(body, &decoded)
		paths = append(paths, r.URL.Path)
		actions = append(actions, decoded["action"].(string))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSetting(mock, models.SettingWebhookBaseURL, server.URL)
	expectSetting(mock, models.SettingWebhookTicketsPath, "/hooks/tickets")
	expectSetting(mock, models.SettingWebhookDomain, server.URL)
	expectSetting(mock, models.SettingWebhookPathTickets, "/v2/tickets")

	d := testDispatcher(repository.NewSettingsRepository(db), repository.NewNotificationRepository(db))

	// No assignee join, so no notification toggles lookup happens.
	d.TicketEvent(context.Background(), "created", &models.Ticket{
		ID:      "t-1",
		Title:   "Check the relay",
		Urgency: models.UrgencyMedium,
		Status:  models.StatusNew,
	})

	require.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, []string{"/hooks/tickets", "/v2/tickets"}, paths)
	assert.Equal(t, []string{"ticket_created", "ticket_created"}, actions)
}

func TestLegacySchemeRequiresPathRow(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "mysql")

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Base URL present but the per-category path row missing: the delivery
	// is skipped, never posted to the bare base URL.
	expectSetting(mock, models.SettingWebhookBaseURL, server.URL)
	expectSetting(mock, models.SettingWebhookTicketsPath, "")
	expectSetting(mock, models.SettingWebhookDomain, "")

	d := testDispatcher(repository.NewSettingsRepository(db), repository.NewNotificationRepository(db))
	d.TicketEvent(context.Background(), "created", &models.Ticket{ID: "t-1", Title: "x"})

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, calls)
}

func TestEntityEventsUseCategoryPaths(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "mysql")

	var paths []string
	var actions []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var decoded map[string]interface{}
		_ = json.Unmarshal(body, &decoded)
		paths = append(paths, r.URL.Path)
		actions = append(actions, decoded["action"].(string))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := testDispatcher(repository.NewSettingsRepository(db), repository.NewNotificationRepository(db))
	ctx := context.Background()

	expectSetting(mock, models.SettingWebhookDomain, server.URL)
	expectSetting(mock, models.SettingWebhookPathMails, "/v2/mails")
	d.MailEvent(ctx, &models.Mail{ID: "m-1", Subject: "Weekly report", SenderID: "u-1", RecipientID: "u-2"})

	expectSetting(mock, models.SettingWebhookDomain, server.URL)
	expectSetting(mock, models.SettingWebhookPathProjects, "/v2/projects")
	d.ProjectEvent(ctx, "created", &models.Project{ID: "p-1", Name: "Relaunch"})

	expectSetting(mock, models.SettingWebhookDomain, server.URL)
	expectSetting(mock, models.SettingWebhookPathInvoices, "/v2/invoices")
	d.InvoiceEvent(ctx, "updated", &models.Invoice{ID: "i-1", Number: "INV-7", Amount: 120})

	expectSetting(mock, models.SettingWebhookDomain, server.URL)
	expectSetting(mock, models.SettingWebhookPathNotification, "/v2/notifications")
	d.NotificationEvent(ctx, &models.Notification{UserID: "u-2", Message: "All done"})

	require.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, []string{"/v2/mails", "/v2/projects", "/v2/invoices", "/v2/notifications"}, paths)
	assert.Equal(t, []string{"mail_received", "project_created", "invoice_status_changed", "notification_created"}, actions)
}

func TestTicketEventSkipsUnconfiguredSchemes(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "mysql")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Neither scheme configured: base URL and domain both missing.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs(models.SettingWebhookBaseURL).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs(models.SettingWebhookDomain).
		WillReturnError(sql.ErrNoRows)

	d := testDispatcher(repository.NewSettingsRepository(db), repository.NewNotificationRepository(db))
	d.TicketEvent(context.Background(), "created", &models.Ticket{ID: "t-1", Title: "x"})

	require.NoError(t, mock.ExpectationsWereMet())
}
