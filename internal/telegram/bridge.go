// Package telegram relays outbound messages to the Telegram Bot API and
// answers a small fixed command set on inbound webhook updates.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

const (
	apiBase        = "https://api.telegram.org"
	requestTimeout = 10 * time.Second
)

// Update is the subset of a Telegram webhook update the bridge reads.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound Telegram message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *Peer  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// Peer identifies the sender of a message.
type Peer struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// SendRequest is the sendMessage call body.
type SendRequest struct {
	ChatID           string `json:"chat_id"`
	Text             string `json:"text"`
	ParseMode        string `json:"parse_mode,omitempty"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
}

// Bridge talks to the Telegram Bot API using the token stored in system
// settings. No conversation state is kept between updates.
type Bridge struct {
	settings *repository.SettingsRepository
	users    *repository.UserRepository
	client   *http.Client
	base     string
	logger   *log.Logger
}

// NewBridge creates a Telegram bridge.
func NewBridge(settings *repository.SettingsRepository, users *repository.UserRepository) *Bridge {
	return &Bridge{
		settings: settings,
		users:    users,
		client:   &http.Client{Timeout: requestTimeout},
		base:     apiBase,
		logger:   log.New(log.Writer(), "[TELEGRAM] ", log.LstdFlags),
	}
}

// VerifySecret compares the inbound ?token= value against the stored webhook
// secret. An empty stored secret means the webhook is unprotected.
func (b *Bridge) VerifySecret(ctx context.Context, token string) bool {
	secret, err := b.settings.Get(ctx, models.SettingTelegramWebhookSecret)
	if err != nil {
		b.logger.Printf("failed to read webhook secret: %v", err)
		return false
	}
	if secret == "" {
		return true
	}
	return token == secret
}

// Send posts a message through the Bot API.
func (b *Bridge) Send(ctx context.Context, req SendRequest) error {
	token, err := b.settings.Get(ctx, models.SettingTelegramBotToken)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("telegram bot token is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", b.base, token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}

// HandleUpdate interprets one inbound update. Text starting with / is matched
// against the fixed command set; anything else gets an acknowledgment echo.
// Reply failures are logged, not returned, so Telegram does not retry.
func (b *Bridge) HandleUpdate(ctx context.Context, update *Update) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return
	}

	msg := update.Message
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	var reply string
	if strings.HasPrefix(msg.Text, "/") {
		command := strings.ToLower(strings.Fields(msg.Text)[0])
		if idx := strings.Index(command, "@"); idx > 0 {
			command = command[:idx]
		}
		reply = b.commandReply(ctx, command, chatID)
	} else {
		reply = "Got it. Use /help to see what I can do."
	}

	err := b.Send(ctx, SendRequest{
		ChatID:           chatID,
		Text:             reply,
		ReplyToMessageID: msg.MessageID,
	})
	if err != nil {
		b.logger.Printf("failed to reply in chat %s: %v", chatID, err)
	}
}

func (b *Bridge) commandReply(ctx context.Context, command, chatID string) string {
	switch command {
	case "/start":
		return "Welcome to PromptDesk. Link this chat from your profile to receive ticket updates here."
	case "/help":
		return "Commands: /start, /help, /status"
	case "/status":
		user, err := b.users.GetByTelegramChatID(ctx, chatID)
		if err != nil || user == nil {
			return "This chat is not linked to a PromptDesk account."
		}
		return fmt.Sprintf("Linked to %s (%s, %s).", user.FullName, user.Role, user.ApprovalStatus)
	default:
		return "Unknown command. Use /help to see what I can do."
	}
}
