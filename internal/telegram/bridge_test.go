package telegram

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

func newTestBridge(t *testing.T, base string) (*Bridge, sqlmock.Sqlmock, func()) {
	t.Setenv("TEST_DB_DRIVER", "mysql")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	b := NewBridge(repository.NewSettingsRepository(db), repository.NewUserRepository(db))
	b.base = base
	b.logger = log.New(io.Discard, "", 0)
	return b, mock, func() { db.Close() }
}

func expectSetting(mock sqlmock.Sqlmock, key, value string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_value FROM system_settings WHERE setting_key = ?")).
		WithArgs(key).
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow(value))
}

func TestVerifySecret(t *testing.T) {
	b, mock, done := newTestBridge(t, "")
	defer done()

	// An empty stored secret leaves the webhook open.
	expectSetting(mock, models.SettingTelegramWebhookSecret, "")
	assert.True(t, b.VerifySecret(context.Background(), "anything"))

	expectSetting(mock, models.SettingTelegramWebhookSecret, "s3cret")
	assert.False(t, b.VerifySecret(context.Background(), "wrong"))

	expectSetting(mock, models.SettingTelegramWebhookSecret, "s3cret")
	assert.True(t, b.VerifySecret(context.Background(), "s3cret"))
}

func TestSendPostsToBotAPI(t *testing.T) {
	var gotPath string
	var gotBody SendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b, mock, done := newTestBridge(t, server.URL)
	defer done()
	expectSetting(mock, models.SettingTelegramBotToken, "123:abc")

	err := b.Send(context.Background(), SendRequest{ChatID: "42", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody.ChatID)
	assert.Equal(t, "hello", gotBody.Text)
}

func TestSendFailsWithoutToken(t *testing.T) {
	b, mock, done := newTestBridge(t, "http://127.0.0.1:1")
	defer done()

	expectSetting(mock, models.SettingTelegramBotToken, "")
	err := b.Send(context.Background(), SendRequest{ChatID: "42", Text: "hi"})
	assert.Error(t, err)
}

func handleUpdateAndCapture(t *testing.T, b *Bridge, mock sqlmock.Sqlmock, server *httptest.Server, text string) SendRequest {
	t.Helper()
	expectSetting(mock, models.SettingTelegramBotToken, "123:abc")

	b.HandleUpdate(context.Background(), &Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 7,
			Chat:      Chat{ID: 42},
			Text:      text,
		},
	})

	var reply SendRequest
	select {
	case reply = <-replies:
	default:
		t.Fatalf("no reply sent for %q", text)
	}
	return reply
}

var replies = make(chan SendRequest, 8)

func newReplyServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		replies <- req
		w.WriteHeader(http.StatusOK)
	}))
}

func TestHandleUpdateCommands(t *testing.T) {
	server := newReplyServer(t)
	defer server.Close()

	b, mock, done := newTestBridge(t, server.URL)
	defer done()

	reply := handleUpdateAndCapture(t, b, mock, server, "/help")
	assert.Equal(t, "42", reply.ChatID)
	assert.Equal(t, int64(7), reply.ReplyToMessageID)
	assert.Contains(t, reply.Text, "/status")

	reply = handleUpdateAndCapture(t, b, mock, server, "/start")
	assert.Contains(t, reply.Text, "Welcome")

	reply = handleUpdateAndCapture(t, b, mock, server, "/frobnicate")
	assert.Contains(t, reply.Text, "Unknown command")

	// Non-command text gets the acknowledgment echo.
	reply = handleUpdateAndCapture(t, b, mock, server, "just saying hi")
	assert.Contains(t, reply.Text, "Got it")
}

func TestHandleUpdateStatusUnlinkedChat(t *testing.T) {
	server := newReplyServer(t)
	defer server.Close()

	b, mock, done := newTestBridge(t, server.URL)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE telegram_chat_id = ?")).
		WithArgs("42").
		WillReturnError(sql.ErrNoRows)

	reply := handleUpdateAndCapture(t, b, mock, server, "/status")
	assert.Contains(t, reply.Text, "not linked")
}

func TestHandleUpdateIgnoresEmptyMessages(t *testing.T) {
	b, _, done := newTestBridge(t, "http://127.0.0.1:1")
	defer done()

	// None of these panic or attempt delivery.
	b.HandleUpdate(context.Background(), nil)
	b.HandleUpdate(context.Background(), &Update{UpdateID: 1})
	b.HandleUpdate(context.Background(), &Update{UpdateID: 2, Message: &Message{Chat: Chat{ID: 1}}})
}
