package api

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
)

func (h *Handlers) handleListNotifications(c *gin.Context) {
	page, perPage := pageParams(c)
	list, err := h.Notifications.ListByUser(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, list)
}

func (h *Handlers) handleUnreadCount(c *gin.Context) {
	count, err := h.Notifications.CountUnread(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, gin.H{"unread": count})
}

// handleMarkRead flips one notification to read. The user filter in the
// repository keeps users from touching each other's rows.
func (h *Handlers) handleMarkRead(c *gin.Context) {
	err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if errors.Is(err, sql.ErrNoRows) {
		apierrors.Error(c, apierrors.CodeNotFound)
		return
	}
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, gin.H{"read": true})
}

func (h *Handlers) handleMarkAllRead(c *gin.Context) {
	count, err := h.Notifications.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, gin.H{"marked": count})
}

func (h *Handlers) handleGetNotificationSettings(c *gin.Context) {
	settings, err := h.Notifications.GetSettings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, settings)
}

type notificationSettingsRequest struct {
	Tickets  bool `json:"tickets"`
	Users    bool `json:"users"`
	Mails    bool `json:"mails"`
	Projects bool `json:"projects"`
	Invoices bool `json:"invoices"`
	System   bool `json:"system"`
}

func (h *Handlers) handleSaveNotificationSettings(c *gin.Context) {
	var req notificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	settings := &models.NotificationSettings{
		UserID:   middleware.UserID(c),
		Tickets:  req.Tickets,
		Users:    req.Users,
		Mails:    req.Mails,
		Projects: req.Projects,
		Invoices: req.Invoices,
		System:   req.System,
	}
	if err := h.Notifications.SaveSettings(c.Request.Context(), settings); err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, settings)
}
