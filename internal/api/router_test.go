package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdesk/promptdesk/internal/auth"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/notifications"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/service"
	"github.com/promptdesk/promptdesk/internal/storage"
	"github.com/promptdesk/promptdesk/internal/telegram"
	"github.com/promptdesk/promptdesk/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Setenv("TEST_DB_DRIVER", "mysql")
	t.Setenv("JWT_SECRET", "api-test-secret")
	t.Setenv("AUTH_EXCHANGE_SECRET", "api-test-exchange-secret")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	settings := repository.NewSettingsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	dispatcher := webhook.NewDispatcher(settings, notificationRepo)
	notifier := notifications.NewWriter(notificationRepo, dispatcher)
	store := storage.NewClientFromEnv()

	handlers := &Handlers{
		Tickets:       service.NewTicketService(repository.NewTicketRepository(db), dispatcher, notifier),
		Users:         service.NewUserService(users, dispatcher, notifier),
		Backups:       service.NewBackupService(repository.NewBackupRepository(db), users, dispatcher, notifier),
		Mails:         service.NewMailService(repository.NewMailRepository(db), store, dispatcher),
		Projects:      service.NewProjectService(repository.NewProjectRepository(db), dispatcher),
		Invoices:      service.NewInvoiceService(repository.NewInvoiceRepository(db), store, dispatcher),
		Notifications: notificationRepo,
		Settings:      settings,
		Bridge:        telegram.NewBridge(settings, users),
	}
	return NewRouter(handlers), mock, func() { db.Close() }
}

func apiErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var decoded struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded.Error.Code
}

func TestHealthEndpoint(t *testing.T) {
	router, _, done := newTestRouter(t)
	defer done()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _, done := newTestRouter(t)
	defer done()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "core:unauthorized", apiErrorCode(t, w.Body.Bytes()))
}

func TestSignInValidation(t *testing.T) {
	router, _, done := newTestRouter(t)
	defer done()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Exchange-Secret", "api-test-exchange-secret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "core:validation_failed", apiErrorCode(t, w.Body.Bytes()))
}

func TestSignInRequiresExchangeSecret(t *testing.T) {
	router, mock, done := newTestRouter(t)
	defer done()

	// An anonymous caller naming an existing user's ID must not receive a
	// token carrying that user's role, nor touch the user's row.
	body := `{"id":"u-admin","email":"attacker@example.com","full_name":"Attacker"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "core:unauthorized", apiErrorCode(t, w.Body.Bytes()))
	assert.NotContains(t, w.Body.String(), `"token"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Exchange-Secret", "wrong-secret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Neither attempt reached the database.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInUnconfiguredExchangeIsClosed(t *testing.T) {
	router, _, done := newTestRouter(t)
	defer done()
	t.Setenv("AUTH_EXCHANGE_SECRET", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
		strings.NewReader(`{"id":"u-1","email":"user@example.com","full_name":"User"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "core:service_unavailable", apiErrorCode(t, w.Body.Bytes()))
}

func TestTelegramRejectsUnknownAction(t *testing.T) {
	router, _, done := newTestRouter(t)
	defer done()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/telegram?action=dance", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "core:invalid_request", apiErrorCode(t, w.Body.Bytes()))
}

func TestTelegramWebhookSecretGate(t *testing.T) {
	router, mock, done := newTestRouter(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs(models.SettingTelegramWebhookSecret).
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("s3cret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/telegram?action=webhook&token=wrong", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestViewerCannotCreateTickets(t *testing.T) {
	router, _, done := newTestRouter(t)
	defer done()

	token, err := auth.GetManager().Generate(&models.User{
		ID: "u-viewer", Email: "v@example.com",
		Role: models.RoleViewer, ApprovalStatus: models.ApprovalApproved,
	})
	require.NoError(t, err)

	// The maintenance check reads settings first; an unexpected query fails
	// open, so no mock expectation is needed for it here.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "user:viewer_forbidden", apiErrorCode(t, w.Body.Bytes()))
}
