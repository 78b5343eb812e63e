// Package notifications writes in-app inbox rows as a side effect of state
// changes elsewhere. There is no push transport; clients poll the inbox.
package notifications

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

var writes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "promptdesk_notification_writes_total",
		Help: "In-app notification insert attempts by outcome.",
	},
	[]string{"outcome"},
)

// eventPoster mirrors notification writes to external webhook endpoints.
type eventPoster interface {
	NotificationEvent(ctx context.Context, n *models.Notification)
}

// Writer inserts notification rows, swallowing failures. A failed insert is
// logged and reported as false; it never propagates.
type Writer struct {
	repo   *repository.NotificationRepository
	events eventPoster
	logger *log.Logger
}

// NewWriter creates a notification writer.
func NewWriter(repo *repository.NotificationRepository, events eventPoster) *Writer {
	return &Writer{
		repo:   repo,
		events: events,
		logger: log.New(log.Writer(), "[NOTIFY] ", log.LstdFlags),
	}
}

// Create inserts one inbox row for the user. Returns false and logs on
// failure.
func (w *Writer) Create(ctx context.Context, userID, notificationType, title, message, redirectPath string) bool {
	n := &models.Notification{
		UserID:       userID,
		Type:         notificationType,
		Title:        title,
		Message:      message,
		RedirectPath: redirectPath,
	}
	if err := w.repo.Insert(ctx, n); err != nil {
		w.logger.Printf("failed to write %s notification for user %s: %v", notificationType, userID, err)
		writes.WithLabelValues("failure").Inc()
		return false
	}
	writes.WithLabelValues("success").Inc()
	w.events.NotificationEvent(ctx, n)
	return true
}
