// Command promptdeskd runs the PromptDesk API server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/api"
	"github.com/promptdesk/promptdesk/internal/config"
	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/notifications"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/runner"
	"github.com/promptdesk/promptdesk/internal/runner/tasks"
	"github.com/promptdesk/promptdesk/internal/service"
	"github.com/promptdesk/promptdesk/internal/storage"
	"github.com/promptdesk/promptdesk/internal/telegram"
	"github.com/promptdesk/promptdesk/internal/webhook"
)

func main() {
	logger := log.New(os.Stdout, "[PROMPTDESK] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	cfg.Apply()
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.GetDB()
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		logger.Fatalf("failed to ensure schema: %v", err)
	}

	users := repository.NewUserRepository(db)
	tickets := repository.NewTicketRepository(db)
	backups := repository.NewBackupRepository(db)
	mails := repository.NewMailRepository(db)
	projects := repository.NewProjectRepository(db)
	invoices := repository.NewInvoiceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settings := repository.NewSettingsRepository(db)

	dispatcher := webhook.NewDispatcher(settings, notificationRepo)
	notifier := notifications.NewWriter(notificationRepo, dispatcher)
	store := storage.NewClientFromEnv()
	bridge := telegram.NewBridge(settings, users)

	handlers := &api.Handlers{
		Tickets:       service.NewTicketService(tickets, dispatcher, notifier),
		Users:         service.NewUserService(users, dispatcher, notifier),
		Backups:       service.NewBackupService(backups, users, dispatcher, notifier),
		Mails:         service.NewMailService(mails, store, dispatcher),
		Projects:      service.NewProjectService(projects, dispatcher),
		Invoices:      service.NewInvoiceService(invoices, store, dispatcher),
		Notifications: notificationRepo,
		Settings:      settings,
		Bridge:        bridge,
	}

	background := runner.New()
	if err := background.Register(tasks.NewNotificationCleanupTask(db)); err != nil {
		logger.Fatalf("failed to register cleanup task: %v", err)
	}
	background.Start()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s (env=%s)", cfg.Addr(), cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("shutting down")
	background.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("forced shutdown: %v", err)
	}
	logger.Println("stopped")
}
