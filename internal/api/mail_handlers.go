package api

import (
	"encoding/base64"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/service"
)

type mailAttachmentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	Data        string `json:"data" binding:"required"`
}

type sendMailRequest struct {
	RecipientID string                  `json:"recipient_id" binding:"required"`
	Subject     string                  `json:"subject" binding:"required"`
	Content     string                  `json:"content"`
	ReplyToID   string                  `json:"reply_to_id"`
	Attachments []mailAttachmentRequest `json:"attachments"`
}

func (h *Handlers) handleSendMail(c *gin.Context) {
	var req sendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	attachments := make([]service.AttachmentInput, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "attachment data must be base64")
			return
		}
		attachments = append(attachments, service.AttachmentInput{
			FileName:    att.FileName,
			ContentType: att.ContentType,
			Data:        data,
		})
	}

	mail, err := h.Mails.Send(c.Request.Context(), &models.Mail{
		SenderID:    middleware.UserID(c),
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Content:     req.Content,
		ReplyToID:   req.ReplyToID,
	}, attachments)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, mail)
}

func (h *Handlers) handleGetMail(c *gin.Context) {
	mail, err := h.Mails.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, mail)
}

func (h *Handlers) handleInbox(c *gin.Context) {
	page, perPage := pageParams(c)
	mails, err := h.Mails.Inbox(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, mails)
}

func (h *Handlers) handleSent(c *gin.Context) {
	page, perPage := pageParams(c)
	mails, err := h.Mails.Sent(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, mails)
}

func (h *Handlers) handleThread(c *gin.Context) {
	mails, err := h.Mails.Thread(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, mails)
}

type setFlagRequest struct {
	Flag  string `json:"flag" binding:"required"`
	Value bool   `json:"value"`
}

func (h *Handlers) handleSetMailFlag(c *gin.Context) {
	var req setFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	var flag repository.MailFlag
	switch req.Flag {
	case "read":
		flag = repository.FlagRead
	case "starred":
		flag = repository.FlagStarred
	case "important":
		flag = repository.FlagImportant
	case "spam":
		flag = repository.FlagSpam
	case "trash":
		flag = repository.FlagTrash
	default:
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "flag must be one of: read, starred, important, spam, trash")
		return
	}

	if err := h.Mails.SetFlag(c.Request.Context(), c.Param("id"), flag, req.Value); err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, gin.H{"flag": req.Flag, "value": req.Value})
}

type labelRequest struct {
	Label string `json:"label" binding:"required"`
}

func (h *Handlers) handleAddMailLabel(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if err := h.Mails.AddLabel(c.Request.Context(), c.Param("id"), req.Label); err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, gin.H{"label": req.Label})
}

func (h *Handlers) handleRemoveMailLabel(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if err := h.Mails.RemoveLabel(c.Request.Context(), c.Param("id"), req.Label); err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, gin.H{"label": req.Label})
}
