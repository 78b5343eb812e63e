package webhook

import (
	"time"

	"github.com/promptdesk/promptdesk/internal/models"
)

// Internal lifecycle verbs used by the services.
const (
	VerbCreated = "created"
	VerbInWork  = "in_work"
	VerbSolved  = "solved"
	VerbDeleted = "deleted"
	VerbUpdated = "updated"
)

// Action categories routed by the current scheme.
const (
	CategoryTickets       = "tickets"
	CategoryUsers         = "users"
	CategoryMails         = "mails"
	CategoryProjects      = "projects"
	CategoryInvoices      = "invoices"
	CategoryNotifications = "notifications"
)

// ticketActions maps internal lifecycle verbs to the external action tags the
// receivers expect.
var ticketActions = map[string]string{
	VerbCreated: "ticket_created",
	VerbInWork:  "ticket_in_work",
	VerbSolved:  "ticket_solved",
	VerbDeleted: "ticket_deleted",
	VerbUpdated: "ticket_updated",
}

// Sharing action tags.
const (
	ActionWorkflowShared = "workflowShared"
	ActionPromptShared   = "promptShared"
	ActionRoleChanged    = "user_role_changed"
)

// Mail and notification action tags.
const (
	ActionMailReceived        = "mail_received"
	ActionNotificationCreated = "notification_created"
)

var projectActions = map[string]string{
	VerbCreated: "project_created",
	VerbUpdated: "project_updated",
	VerbDeleted: "project_deleted",
}

var invoiceActions = map[string]string{
	VerbCreated: "invoice_created",
	VerbUpdated: "invoice_status_changed",
	VerbDeleted: "invoice_deleted",
}

// TicketAction returns the external action tag for an internal verb. Unknown
// verbs map to themselves so a payload is never silently empty.
func TicketAction(verb string) string {
	if action, ok := ticketActions[verb]; ok {
		return action
	}
	return verb
}

// DeadlineParts decomposes a deadline into the external payload's separate
// ISO date and HH:MM time strings, both UTC. A nil deadline yields nil for
// both fields.
func DeadlineParts(deadline *time.Time) (date, clock *string) {
	if deadline == nil {
		return nil, nil
	}
	utc := deadline.UTC()
	d := utc.Format("2006-01-02")
	t := utc.Format("15:04")
	return &d, &t
}

// LegacyTicketPayload is the fixed-shape body of the legacy webhook scheme.
// Fields are null where not applicable.
type LegacyTicketPayload struct {
	Action         string  `json:"action"`
	TicketID       *string `json:"ticket_id"`
	TicketTitle    *string `json:"ticket_title"`
	TicketUrgency  *string `json:"ticket_urgency"`
	TicketDeadline *string `json:"ticket_deadline"`
	TicketDate     *string `json:"ticket_date"`
	TicketTime     *string `json:"ticket_time"`
	CreatorID      *string `json:"creator_id"`
	CreatorEmail   *string `json:"creator_email"`
	CreatorName    *string `json:"creator_name"`
	WorkerID       *string `json:"worker_id"`
	WorkerEmail    *string `json:"worker_email"`
	WorkerName     *string `json:"worker_name"`
}

// NewLegacyTicketPayload builds the legacy body from a ticket joined with its
// creator and assignee.
func NewLegacyTicketPayload(verb string, ticket *models.Ticket) *LegacyTicketPayload {
	p := &LegacyTicketPayload{Action: TicketAction(verb)}
	p.TicketID = strPtr(ticket.ID)
	p.TicketTitle = strPtr(ticket.Title)
	p.TicketUrgency = strPtr(ticket.Urgency)
	if ticket.Deadline != nil {
		iso := ticket.Deadline.UTC().Format(time.RFC3339)
		p.TicketDeadline = &iso
	}
	p.TicketDate, p.TicketTime = DeadlineParts(ticket.Deadline)
	if ticket.Creator != nil {
		p.CreatorID = strPtr(ticket.CreatedBy)
		p.CreatorEmail = strPtr(ticket.Creator.Email)
		p.CreatorName = strPtr(ticket.Creator.FullName)
	}
	if ticket.Assignee != nil {
		p.WorkerID = strPtr(ticket.AssignedTo)
		p.WorkerEmail = strPtr(ticket.Assignee.Email)
		p.WorkerName = strPtr(ticket.Assignee.FullName)
	}
	return p
}

// NewLegacySharingPayload builds the legacy body for a backup share event.
// Only the action and the two user blocks are populated; ticket fields stay
// null.
func NewLegacySharingPayload(backupType string, owner, recipient *models.User) *LegacyTicketPayload {
	action := ActionPromptShared
	if backupType == models.BackupTypeN8NWorkflow {
		action = ActionWorkflowShared
	}
	p := &LegacyTicketPayload{Action: action}
	if owner != nil {
		p.CreatorID = strPtr(owner.ID)
		p.CreatorEmail = strPtr(owner.Email)
		p.CreatorName = strPtr(owner.FullName)
	}
	if recipient != nil {
		p.WorkerID = strPtr(recipient.ID)
		p.WorkerEmail = strPtr(recipient.Email)
		p.WorkerName = strPtr(recipient.FullName)
	}
	return p
}

// NotificationToggles is the per-category block attached to current-scheme
// payloads for ticket and role-change actions.
type NotificationToggles struct {
	Tickets  bool `json:"tickets"`
	Users    bool `json:"users"`
	Mails    bool `json:"mails"`
	Projects bool `json:"projects"`
	Invoices bool `json:"invoices"`
	System   bool `json:"system"`
}

// TogglesFromSettings converts a settings row into the payload block.
func TogglesFromSettings(s *models.NotificationSettings) *NotificationToggles {
	return &NotificationToggles{
		Tickets:  s.Tickets,
		Users:    s.Users,
		Mails:    s.Mails,
		Projects: s.Projects,
		Invoices: s.Invoices,
		System:   s.System,
	}
}

// Payload is the superset body of the current webhook scheme. Optional fields
// cover every entity kind; only those relevant to the action are set.
type Payload struct {
	Action string `json:"action"`

	UserID    *string `json:"user_id,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	UserRole  *string `json:"user_role,omitempty"`

	TicketID       *string `json:"ticket_id,omitempty"`
	TicketTitle    *string `json:"ticket_title,omitempty"`
	TicketUrgency  *string `json:"ticket_urgency,omitempty"`
	TicketStatus   *string `json:"ticket_status,omitempty"`
	TicketDeadline *string `json:"ticket_deadline,omitempty"`
	TicketDate     *string `json:"ticket_date,omitempty"`
	TicketTime     *string `json:"ticket_time,omitempty"`

	CreatorID    *string `json:"creator_id,omitempty"`
	CreatorEmail *string `json:"creator_email,omitempty"`
	CreatorName  *string `json:"creator_name,omitempty"`
	WorkerID     *string `json:"worker_id,omitempty"`
	WorkerEmail  *string `json:"worker_email,omitempty"`
	WorkerName   *string `json:"worker_name,omitempty"`

	MailID      *string `json:"mail_id,omitempty"`
	MailSubject *string `json:"mail_subject,omitempty"`

	ProjectID   *string `json:"project_id,omitempty"`
	ProjectName *string `json:"project_name,omitempty"`

	InvoiceID     *string  `json:"invoice_id,omitempty"`
	InvoiceNumber *string  `json:"invoice_number,omitempty"`
	InvoiceAmount *float64 `json:"invoice_amount,omitempty"`

	Notifications    *NotificationToggles `json:"notifications,omitempty"`
	NotificationBody *string              `json:"notificationBody,omitempty"`
}

// NewTicketPayload builds the current-scheme body for a ticket lifecycle
// event.
func NewTicketPayload(verb string, ticket *models.Ticket) *Payload {
	p := &Payload{Action: TicketAction(verb)}
	p.TicketID = strPtr(ticket.ID)
	p.TicketTitle = strPtr(ticket.Title)
	p.TicketUrgency = strPtr(ticket.Urgency)
	p.TicketStatus = strPtr(ticket.Status)
	if ticket.Deadline != nil {
		iso := ticket.Deadline.UTC().Format(time.RFC3339)
		p.TicketDeadline = &iso
	}
	p.TicketDate, p.TicketTime = DeadlineParts(ticket.Deadline)
	if ticket.Creator != nil {
		p.CreatorID = strPtr(ticket.CreatedBy)
		p.CreatorEmail = strPtr(ticket.Creator.Email)
		p.CreatorName = strPtr(ticket.Creator.FullName)
	}
	if ticket.Assignee != nil {
		p.WorkerID = strPtr(ticket.AssignedTo)
		p.WorkerEmail = strPtr(ticket.Assignee.Email)
		p.WorkerName = strPtr(ticket.Assignee.FullName)
		p.UserID = strPtr(ticket.AssignedTo)
	}
	return p
}

// NewMailPayload builds the current-scheme body for an internal mail
// delivery. The recipient goes into the user block, the sender into the
// creator block.
func NewMailPayload(mail *models.Mail) *Payload {
	return &Payload{
		Action:      ActionMailReceived,
		MailID:      strPtr(mail.ID),
		MailSubject: strPtr(mail.Subject),
		UserID:      strPtr(mail.RecipientID),
		CreatorID:   strPtr(mail.SenderID),
	}
}

// NewProjectPayload builds the current-scheme body for a project lifecycle
// event.
func NewProjectPayload(verb string, project *models.Project) *Payload {
	action, ok := projectActions[verb]
	if !ok {
		action = verb
	}
	return &Payload{
		Action:      action,
		ProjectID:   strPtr(project.ID),
		ProjectName: strPtr(project.Name),
	}
}

// NewInvoicePayload builds the current-scheme body for an invoice lifecycle
// event.
func NewInvoicePayload(verb string, invoice *models.Invoice) *Payload {
	action, ok := invoiceActions[verb]
	if !ok {
		action = verb
	}
	p := &Payload{
		Action:        action,
		InvoiceID:     strPtr(invoice.ID),
		InvoiceNumber: strPtr(invoice.Number),
		ProjectID:     strPtr(invoice.ProjectID),
	}
	p.InvoiceAmount = &invoice.Amount
	return p
}

// NewNotificationPayload builds the current-scheme body for an in-app
// notification write.
func NewNotificationPayload(n *models.Notification) *Payload {
	return &Payload{
		Action:           ActionNotificationCreated,
		UserID:           strPtr(n.UserID),
		NotificationBody: strPtr(n.Message),
	}
}

// NewRoleChangePayload builds the current-scheme body for a role change.
func NewRoleChangePayload(user *models.User) *Payload {
	return &Payload{
		Action:    ActionRoleChanged,
		UserID:    strPtr(user.ID),
		UserEmail: strPtr(user.Email),
		UserName:  strPtr(user.FullName),
		UserRole:  strPtr(user.Role),
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
