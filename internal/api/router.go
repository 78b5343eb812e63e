package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/service"
	"github.com/promptdesk/promptdesk/internal/telegram"
)

// Handlers bundles the services the REST surface delegates to.
type Handlers struct {
	Tickets       *service.TicketService
	Users         *service.UserService
	Backups       *service.BackupService
	Mails         *service.MailService
	Projects      *service.ProjectService
	Invoices      *service.InvoiceService
	Notifications *repository.NotificationRepository
	Settings      *repository.SettingsRepository
	Bridge        *telegram.Bridge
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", h.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The Telegram endpoint routes on ?action= and does its own auth: the
	// webhook action is called by Telegram itself, the send action verifies
	// the session token inline.
	r.Any("/api/telegram", h.handleTelegram)

	r.POST("/api/auth/signin", h.handleSignIn)

	authed := r.Group("/api")
	authed.Use(middleware.Auth(), middleware.Maintenance(h.Settings))

	authed.GET("/auth/me", h.handleMe)
	authed.POST("/users/me/telegram", h.handleLinkTelegram)

	approved := authed.Group("")
	approved.Use(middleware.RequireApproved())

	// Reads are open to every approved role, viewers included.
	approved.GET("/tickets", h.handleListTickets)
	approved.GET("/tickets/my", h.handleListAssignedTickets)
	approved.GET("/tickets/created", h.handleListCreatedTickets)
	approved.GET("/tickets/:id", h.handleGetTicket)
	approved.GET("/users", h.handleListUsers)
	approved.GET("/backups/prompts", h.handleListPromptBackups)
	approved.GET("/backups/workflows", h.handleListWorkflowBackups)
	approved.GET("/backups/shared", h.handleListSharedBackups)
	approved.GET("/mails/inbox", h.handleInbox)
	approved.GET("/mails/sent", h.handleSent)
	approved.GET("/mails/thread/:id", h.handleThread)
	approved.GET("/mails/:id", h.handleGetMail)
	approved.GET("/projects", h.handleListProjects)
	approved.GET("/projects/:id", h.handleGetProject)
	approved.GET("/invoices", h.handleListInvoices)
	approved.GET("/invoices/:id", h.handleGetInvoice)
	approved.GET("/notifications", h.handleListNotifications)
	approved.GET("/notifications/unread_count", h.handleUnreadCount)
	approved.GET("/notifications/settings", h.handleGetNotificationSettings)

	// Notification read state belongs to the user regardless of role.
	approved.POST("/notifications/:id/read", h.handleMarkRead)
	approved.POST("/notifications/read_all", h.handleMarkAllRead)
	approved.PUT("/notifications/settings", h.handleSaveNotificationSettings)

	writer := approved.Group("")
	writer.Use(middleware.RejectViewers())

	writer.POST("/tickets", h.handleCreateTicket)
	writer.POST("/tickets/:id/start", h.handleStartTicket)
	writer.POST("/tickets/:id/complete", h.handleCompleteTicket)
	writer.PUT("/tickets/:id", h.handleEditTicket)
	writer.DELETE("/tickets/:id", h.handleDeleteTicket)

	writer.POST("/backups/prompts", h.handleCreatePromptBackup)
	writer.POST("/backups/workflows", h.handleCreateWorkflowBackup)
	writer.POST("/backups/share", h.handleShareBackup)

	writer.POST("/mails", h.handleSendMail)
	writer.PUT("/mails/:id/flags", h.handleSetMailFlag)
	writer.POST("/mails/:id/labels", h.handleAddMailLabel)
	writer.DELETE("/mails/:id/labels", h.handleRemoveMailLabel)

	writer.POST("/projects", h.handleCreateProject)
	writer.PUT("/projects/:id", h.handleUpdateProject)
	writer.DELETE("/projects/:id", h.handleDeleteProject)

	writer.POST("/invoices", h.handleCreateInvoice)
	writer.PUT("/invoices/:id/status", h.handleSetInvoiceStatus)
	writer.POST("/invoices/:id/pdf", h.handleAttachInvoicePDF)
	writer.DELETE("/invoices/:id", h.handleDeleteInvoice)

	admin := approved.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.POST("/users/:id/approve", h.handleApproveUser)
	admin.POST("/users/:id/reject", h.handleRejectUser)
	admin.PUT("/users/:id/role", h.handleSetUserRole)
	admin.GET("/settings", h.handleListSettings)
	admin.PUT("/settings/:key", h.handleSetSetting)

	return r
}

func (h *Handlers) handleHealth(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}
