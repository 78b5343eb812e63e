// Package service orchestrates entity lifecycles: primary persistence first,
// then best-effort fan-out (webhook, notification) that never affects the
// primary operation's outcome.
package service

import "errors"

// Domain errors surfaced to handlers, which translate them to apierrors
// codes. The underlying row is left unchanged when any of these is returned.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyEdited    = errors.New("ticket has already been edited once")
	ErrTicketCompleted  = errors.New("completed tickets cannot be modified or deleted")
	ErrNotAssignee      = errors.New("only the assignee may change the ticket status")
	ErrNotCreator       = errors.New("only the creator may edit or delete the ticket")
	ErrInvalidUrgency   = errors.New("invalid urgency")
	ErrViewerForbidden  = errors.New("viewers cannot perform this action")
	ErrAlreadyDecided   = errors.New("user approval status was already decided")
	ErrInvalidRole      = errors.New("invalid role")
	ErrBadVersionChain  = errors.New("previous version must belong to the same owner and type")
	ErrInvalidShareRole = errors.New("access role must be viewer or editor")
)
