package api

import (
	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/auth"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/telegram"
)

// handleTelegram multiplexes the two bridge entry points on ?action=.
func (h *Handlers) handleTelegram(c *gin.Context) {
	switch c.Query("action") {
	case "send":
		h.handleTelegramSend(c)
	case "webhook":
		h.handleTelegramWebhook(c)
	default:
		apierrors.ErrorWithMessage(c, apierrors.CodeInvalidRequest, "action must be send or webhook")
	}
}

type telegramSendRequest struct {
	RecipientID      string `json:"recipient_id" binding:"required"`
	Text             string `json:"text" binding:"required"`
	ParseMode        string `json:"parse_mode"`
	ReplyToMessageID int64  `json:"reply_to_message_id"`
	SaveAsMail       bool   `json:"save_as_mail"`
	Subject          string `json:"subject"`
}

// handleTelegramSend relays a message to another user's linked Telegram chat,
// optionally recording it as an internal mail first.
func (h *Handlers) handleTelegramSend(c *gin.Context) {
	claims, err := middleware.VerifyRequest(c)
	if err != nil {
		code := apierrors.CodeUnauthorized
		if err == auth.ErrTokenExpired {
			code = apierrors.CodeTokenExpired
		}
		apierrors.Error(c, code)
		return
	}
	if claims.ApprovalStatus != models.ApprovalApproved {
		apierrors.Error(c, apierrors.CodePendingApproval)
		return
	}
	if claims.Role == models.RoleViewer {
		apierrors.Error(c, apierrors.CodeUserViewerForbidden)
		return
	}

	var req telegramSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	recipient, err := h.Users.Get(c.Request.Context(), req.RecipientID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if recipient.TelegramChatID == "" {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "recipient has no linked Telegram chat")
		return
	}

	if req.SaveAsMail {
		subject := req.Subject
		if subject == "" {
			subject = "Telegram message"
		}
		_, err := h.Mails.Send(c.Request.Context(), &models.Mail{
			SenderID:    claims.Subject,
			RecipientID: req.RecipientID,
			Subject:     subject,
			Content:     req.Text,
		}, nil)
		if err != nil {
			serviceError(c, err)
			return
		}
	}

	err = h.Bridge.Send(c.Request.Context(), telegram.SendRequest{
		ChatID:           recipient.TelegramChatID,
		Text:             req.Text,
		ParseMode:        req.ParseMode,
		ReplyToMessageID: req.ReplyToMessageID,
	})
	if err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeServiceUnavailable, "Telegram delivery failed")
		return
	}
	respondOK(c, gin.H{"sent": true})
}

// handleTelegramWebhook accepts inbound updates from Telegram. The optional
// ?token= must match the stored secret when one is configured. The response
// is always 200 so Telegram does not retry.
func (h *Handlers) handleTelegramWebhook(c *gin.Context) {
	if !h.Bridge.VerifySecret(c.Request.Context(), c.Query("token")) {
		apierrors.Error(c, apierrors.CodeForbidden)
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		respondOK(c, gin.H{"ok": true})
		return
	}
	h.Bridge.HandleUpdate(c.Request.Context(), &update)
	respondOK(c, gin.H{"ok": true})
}
