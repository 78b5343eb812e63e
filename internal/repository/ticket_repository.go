// Package repository implements the persistence gateway over database/sql.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// TicketRepository handles database operations for tickets.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `t.id, t.title, t.urgency, t.details, t.deadline, t.status,
	t.assigned_to, t.created_by, t.solution_type, t.solution_data, t.output_result,
	t.edited, t.user_notified, t.created_at, t.updated_at,
	a.email, a.full_name, a.telegram_chat_id,
	c.email, c.full_name, c.telegram_chat_id`

const ticketJoins = `
	FROM tickets t
	LEFT JOIN users a ON a.id = t.assigned_to
	LEFT JOIN users c ON c.id = t.created_by`

// Create inserts a new ticket with status "new" and returns the persisted row
// joined with assignee and creator.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ticket.Status = models.StatusNew
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO tickets (id, title, urgency, details, deadline, status,
			assigned_to, created_by, edited, user_notified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, FALSE, FALSE, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		ticket.ID, ticket.Title, ticket.Urgency, ticket.Details, ticket.Deadline,
		ticket.Status, ticket.AssignedTo, ticket.CreatedBy, now, now,
	)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, ticket.ID)
}

// GetByID retrieves a ticket joined with its assignee and creator.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := database.ConvertPlaceholders(`SELECT ` + ticketColumns + ticketJoins + ` WHERE t.id = ?`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// ListByAssignee returns a bounded page of tickets assigned to the user,
// newest first.
func (r *TicketRepository) ListByAssignee(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`SELECT ` + ticketColumns + ticketJoins + `
		WHERE t.assigned_to = ?
		ORDER BY t.created_at DESC
		LIMIT ? OFFSET ?`)
	return r.scanMany(ctx, query, userID, limit, offset)
}

// ListByCreator returns a bounded page of tickets created by the user.
func (r *TicketRepository) ListByCreator(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`SELECT ` + ticketColumns + ticketJoins + `
		WHERE t.created_by = ?
		ORDER BY t.created_at DESC
		LIMIT ? OFFSET ?`)
	return r.scanMany(ctx, query, userID, limit, offset)
}

// List returns a bounded page of all tickets, newest first.
func (r *TicketRepository) List(ctx context.Context, page, perPage int) ([]*models.Ticket, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`SELECT ` + ticketColumns + ticketJoins + `
		ORDER BY t.created_at DESC
		LIMIT ? OFFSET ?`)
	return r.scanMany(ctx, query, limit, offset)
}

// UpdateStatus moves the ticket to the given status.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := database.ConvertPlaceholders(`
		UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// CompleteWithSolution marks the ticket completed and stores the solution
// payload and optional output result.
func (r *TicketRepository) CompleteWithSolution(ctx context.Context, id, solutionType, solutionData, outputResult string) error {
	query := database.ConvertPlaceholders(`
		UPDATE tickets
		SET status = ?, solution_type = ?, solution_data = ?, output_result = ?, updated_at = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		models.StatusCompleted, solutionType, solutionData, outputResult, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// TicketEdit carries the fields a creator may change in the one permitted edit.
type TicketEdit struct {
	Title      string
	Urgency    string
	Details    string
	Deadline   *time.Time
	AssignedTo string
}

// EditOnce applies the one-time edit as a single atomic conditional update.
// The edited flag is part of the WHERE clause, so two concurrent edits cannot
// both succeed: the loser sees sql.ErrNoRows.
func (r *TicketRepository) EditOnce(ctx context.Context, id string, edit *TicketEdit) error {
	query := database.ConvertPlaceholders(`
		UPDATE tickets
		SET title = ?, urgency = ?, details = ?, deadline = ?, assigned_to = ?,
			edited = TRUE, updated_at = ?
		WHERE id = ? AND edited = FALSE
	`)
	result, err := r.db.ExecContext(ctx, query,
		edit.Title, edit.Urgency, edit.Details, edit.Deadline, edit.AssignedTo,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// MarkUserNotified records that the assignee was notified about the ticket.
func (r *TicketRepository) MarkUserNotified(ctx context.Context, id string) error {
	query := database.ConvertPlaceholders(`
		UPDATE tickets SET user_notified = TRUE, updated_at = ? WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// Delete removes the ticket row.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	query := database.ConvertPlaceholders(`DELETE FROM tickets WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

func (r *TicketRepository) scanOne(row *sql.Row) (*models.Ticket, error) {
	t := &models.Ticket{}
	var (
		details, solutionType, solutionData, outputResult sql.NullString
		deadline                                          sql.NullTime
		assigneeEmail, assigneeName, assigneeChat         sql.NullString
		creatorEmail, creatorName, creatorChat            sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Urgency, &details, &deadline, &t.Status,
		&t.AssignedTo, &t.CreatedBy, &solutionType, &solutionData, &outputResult,
		&t.Edited, &t.UserNotified, &t.CreatedAt, &t.UpdatedAt,
		&assigneeEmail, &assigneeName, &assigneeChat,
		&creatorEmail, &creatorName, &creatorChat,
	)
	if err != nil {
		return nil, err
	}
	applyTicketNullables(t, details, deadline, solutionType, solutionData, outputResult)
	attachTicketRelations(t, assigneeEmail, assigneeName, assigneeChat, creatorEmail, creatorName, creatorChat)
	return t, nil
}

func (r *TicketRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t := &models.Ticket{}
		var (
			details, solutionType, solutionData, outputResult sql.NullString
			deadline                                          sql.NullTime
			assigneeEmail, assigneeName, assigneeChat         sql.NullString
			creatorEmail, creatorName, creatorChat            sql.NullString
		)
		err := rows.Scan(
			&t.ID, &t.Title, &t.Urgency, &details, &deadline, &t.Status,
			&t.AssignedTo, &t.CreatedBy, &solutionType, &solutionData, &outputResult,
			&t.Edited, &t.UserNotified, &t.CreatedAt, &t.UpdatedAt,
			&assigneeEmail, &assigneeName, &assigneeChat,
			&creatorEmail, &creatorName, &creatorChat,
		)
		if err != nil {
			return nil, err
		}
		applyTicketNullables(t, details, deadline, solutionType, solutionData, outputResult)
		attachTicketRelations(t, assigneeEmail, assigneeName, assigneeChat, creatorEmail, creatorName, creatorChat)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func applyTicketNullables(t *models.Ticket, details sql.NullString, deadline sql.NullTime, solutionType, solutionData, outputResult sql.NullString) {
	t.Details = details.String
	t.SolutionType = solutionType.String
	t.SolutionData = solutionData.String
	t.OutputResult = outputResult.String
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
}

func attachTicketRelations(t *models.Ticket, assigneeEmail, assigneeName, assigneeChat, creatorEmail, creatorName, creatorChat sql.NullString) {
	if assigneeEmail.Valid {
		t.Assignee = &models.User{
			ID:             t.AssignedTo,
			Email:          assigneeEmail.String,
			FullName:       assigneeName.String,
			TelegramChatID: assigneeChat.String,
		}
	}
	if creatorEmail.Valid {
		t.Creator = &models.User{
			ID:             t.CreatedBy,
			Email:          creatorEmail.String,
			FullName:       creatorName.String,
			TelegramChatID: creatorChat.String,
		}
	}
}
