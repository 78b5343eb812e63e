package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

// ticketStore is the slice of the ticket repository the service needs.
type ticketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context, page, perPage int) ([]*models.Ticket, error)
	ListByAssignee(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error)
	ListByCreator(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CompleteWithSolution(ctx context.Context, id, solutionType, solutionData, outputResult string) error
	EditOnce(ctx context.Context, id string, edit *repository.TicketEdit) error
	MarkUserNotified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// EventDispatcher posts lifecycle events to external webhook endpoints.
type EventDispatcher interface {
	TicketEvent(ctx context.Context, verb string, ticket *models.Ticket)
}

// Notifier writes in-app inbox rows.
type Notifier interface {
	Create(ctx context.Context, userID, notificationType, title, message, redirectPath string) bool
}

// TicketService owns the ticket state machine: new -> in_progress ->
// completed, plus deletion from non-completed states. Each transition runs
// its fan-out (webhook, notification) sequentially after the primary write
// commits; fan-out failures are swallowed.
type TicketService struct {
	tickets    ticketStore
	dispatcher EventDispatcher
	notifier   Notifier
	logger     *log.Logger
}

// NewTicketService creates a ticket service.
func NewTicketService(tickets ticketStore, dispatcher EventDispatcher, notifier Notifier) *TicketService {
	return &TicketService{
		tickets:    tickets,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     log.New(log.Writer(), "[TICKET] ", log.LstdFlags),
	}
}

// CreateTicketInput carries the validated fields for ticket creation.
type CreateTicketInput struct {
	Title      string
	Urgency    string
	Details    string
	Deadline   *time.Time
	AssignedTo string
	CreatedBy  string
}

// Create persists a new ticket and fans out: the created webhook always, an
// assignment notification only when the assignee differs from the creator.
func (s *TicketService) Create(ctx context.Context, input *CreateTicketInput) (*models.Ticket, error) {
	if !models.ValidUrgency(input.Urgency) {
		return nil, ErrInvalidUrgency
	}

	ticket, err := s.tickets.Create(ctx, &models.Ticket{
		Title:      input.Title,
		Urgency:    input.Urgency,
		Details:    input.Details,
		Deadline:   input.Deadline,
		AssignedTo: input.AssignedTo,
		CreatedBy:  input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.TicketEvent(ctx, "created", ticket)
	if ticket.AssignedTo != ticket.CreatedBy {
		notified := s.notifier.Create(ctx, ticket.AssignedTo,
			models.NotificationTicketAssigned,
			"New Ticket Assigned",
			fmt.Sprintf("You have been assigned the ticket %q.", ticket.Title),
			"/tickets/"+ticket.ID,
		)
		if notified {
			if err := s.tickets.MarkUserNotified(ctx, ticket.ID); err != nil {
				s.logger.Printf("failed to mark ticket %s user_notified: %v", ticket.ID, err)
			} else {
				ticket.UserNotified = true
			}
		}
	}

	return ticket, nil
}

// Get returns one ticket with joined relations.
func (s *TicketService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ticket, err
}

// List returns a bounded page of all tickets.
func (s *TicketService) List(ctx context.Context, page, perPage int) ([]*models.Ticket, error) {
	return s.tickets.List(ctx, page, perPage)
}

// ListAssigned returns the user's assigned tickets.
func (s *TicketService) ListAssigned(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error) {
	return s.tickets.ListByAssignee(ctx, userID, page, perPage)
}

// ListCreated returns the tickets the user created.
func (s *TicketService) ListCreated(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error) {
	return s.tickets.ListByCreator(ctx, userID, page, perPage)
}

// Start moves a new ticket to in_progress. Only the assignee may do this.
// Fan-out: in_work webhook, notification to the creator.
func (s *TicketService) Start(ctx context.Context, id, actorID string) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.AssignedTo != actorID {
		return nil, ErrNotAssignee
	}
	if ticket.Status != models.StatusNew {
		return nil, fmt.Errorf("ticket %s is %s, cannot start", id, ticket.Status)
	}

	if err := s.tickets.UpdateStatus(ctx, id, models.StatusInProgress); err != nil {
		return nil, err
	}
	ticket.Status = models.StatusInProgress

	s.dispatcher.TicketEvent(ctx, "in_work", ticket)
	s.notifyCreator(ctx, ticket, models.NotificationTicketInWork,
		"Ticket In Progress",
		fmt.Sprintf("Work has started on your ticket %q.", ticket.Title),
	)

	return ticket, nil
}

// Complete marks the ticket completed with a validated solution payload.
// Only the assignee may complete. Fan-out: solved webhook, notification to
// the creator.
func (s *TicketService) Complete(ctx context.Context, id, actorID string, solution *models.Solution, outputResult string) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.AssignedTo != actorID {
		return nil, ErrNotAssignee
	}
	if ticket.Status == models.StatusCompleted {
		return nil, ErrTicketCompleted
	}
	if err := solution.Validate(); err != nil {
		return nil, err
	}

	encoded, err := solution.Encode()
	if err != nil {
		return nil, err
	}
	if err := s.tickets.CompleteWithSolution(ctx, id, solution.Type, encoded, outputResult); err != nil {
		return nil, err
	}
	ticket.Status = models.StatusCompleted
	ticket.SolutionType = solution.Type
	ticket.SolutionData = encoded
	ticket.OutputResult = outputResult

	s.dispatcher.TicketEvent(ctx, "solved", ticket)
	s.notifyCreator(ctx, ticket, models.NotificationTicketSolved,
		"Ticket Completed",
		fmt.Sprintf("Your ticket %q has been completed.", ticket.Title),
	)

	return ticket, nil
}

// Edit applies the creator's one permitted edit. The repository performs an
// atomic conditional update; a concurrent or repeated edit loses the race and
// surfaces ErrAlreadyEdited, leaving the row untouched.
func (s *TicketService) Edit(ctx context.Context, id, actorID string, edit *repository.TicketEdit) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.CreatedBy != actorID {
		return nil, ErrNotCreator
	}
	if ticket.Edited {
		return nil, ErrAlreadyEdited
	}
	if !models.ValidUrgency(edit.Urgency) {
		return nil, ErrInvalidUrgency
	}

	err = s.tickets.EditOnce(ctx, id, edit)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race against a concurrent edit.
		return nil, ErrAlreadyEdited
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.dispatcher.TicketEvent(ctx, "updated", updated)
	return updated, nil
}

// Delete removes a not-yet-completed ticket. The deleted webhook is sent
// before the row is removed so the payload can still carry joined
// assignee/creator data.
func (s *TicketService) Delete(ctx context.Context, id, actorID string) error {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ticket.CreatedBy != actorID {
		return ErrNotCreator
	}
	if ticket.Status == models.StatusCompleted {
		return ErrTicketCompleted
	}

	s.dispatcher.TicketEvent(ctx, "deleted", ticket)

	err = s.tickets.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *TicketService) notifyCreator(ctx context.Context, ticket *models.Ticket, notificationType, title, message string) {
	s.notifier.Create(ctx, ticket.CreatedBy, notificationType, title, message, "/tickets/"+ticket.ID)
}
