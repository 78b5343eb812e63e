// Package apierrors provides structured API error codes and responses.
// All codes are namespaced (e.g., "core:unauthorized", "ticket:already_edited").
package apierrors

import "net/http"

// Core error codes - registered automatically at init
const (
	// Authentication & Authorization
	CodeUnauthorized    = "core:unauthorized"
	CodeForbidden       = "core:forbidden"
	CodeInvalidToken    = "core:invalid_token"
	CodeTokenExpired    = "core:token_expired"
	CodePendingApproval = "core:pending_approval"

	// Request errors
	CodeInvalidRequest   = "core:invalid_request"
	CodeValidationFailed = "core:validation_failed"
	CodeInvalidID        = "core:invalid_id"

	// Resource errors
	CodeNotFound = "core:not_found"
	CodeConflict = "core:conflict"

	// Server errors
	CodeInternalError      = "core:internal_error"
	CodeServiceUnavailable = "core:service_unavailable"
	CodeMaintenanceMode    = "core:maintenance_mode"
)

// Ticket domain codes
const (
	CodeTicketAlreadyEdited   = "ticket:already_edited"
	CodeTicketCompleted       = "ticket:completed"
	CodeTicketInvalidUrgency  = "ticket:invalid_urgency"
	CodeTicketInvalidSolution = "ticket:invalid_solution"
	CodeTicketNotAssignee     = "ticket:not_assignee"
	CodeTicketNotCreator      = "ticket:not_creator"
)

// User domain codes
const (
	CodeUserAlreadyApproved = "user:already_approved"
	CodeUserInvalidRole     = "user:invalid_role"
	CodeUserViewerForbidden = "user:viewer_forbidden"
)

// Backup domain codes
const (
	CodeBackupBadVersionChain = "backup:bad_version_chain"
	CodeBackupInvalidRole     = "backup:invalid_access_role"
)

var coreErrors = []ErrorCode{
	// Authentication & Authorization
	{Code: CodeUnauthorized, Message: "Authentication required", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeForbidden, Message: "Permission denied", HTTPStatus: http.StatusForbidden},
	{Code: CodeInvalidToken, Message: "Invalid or malformed token", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeTokenExpired, Message: "Token has expired", HTTPStatus: http.StatusUnauthorized},
	{Code: CodePendingApproval, Message: "Account is awaiting admin approval", HTTPStatus: http.StatusForbidden},

	// Request errors
	{Code: CodeInvalidRequest, Message: "Invalid request body", HTTPStatus: http.StatusBadRequest},
	{Code: CodeValidationFailed, Message: "Request validation failed", HTTPStatus: http.StatusBadRequest},
	{Code: CodeInvalidID, Message: "Invalid ID format", HTTPStatus: http.StatusBadRequest},

	// Resource errors
	{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound},
	{Code: CodeConflict, Message: "Resource conflict", HTTPStatus: http.StatusConflict},

	// Server errors
	{Code: CodeInternalError, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError},
	{Code: CodeServiceUnavailable, Message: "Service temporarily unavailable", HTTPStatus: http.StatusServiceUnavailable},
	{Code: CodeMaintenanceMode, Message: "System is in maintenance mode", HTTPStatus: http.StatusServiceUnavailable},

	// Ticket domain
	{Code: CodeTicketAlreadyEdited, Message: "Ticket has already been edited once and is locked", HTTPStatus: http.StatusConflict},
	{Code: CodeTicketCompleted, Message: "Completed tickets cannot be modified or deleted", HTTPStatus: http.StatusConflict},
	{Code: CodeTicketInvalidUrgency, Message: "Urgency must be one of: low, medium, high, critical", HTTPStatus: http.StatusBadRequest},
	{Code: CodeTicketInvalidSolution, Message: "Solution payload does not match its solution_type", HTTPStatus: http.StatusBadRequest},
	{Code: CodeTicketNotAssignee, Message: "Only the assignee may change the ticket status", HTTPStatus: http.StatusForbidden},
	{Code: CodeTicketNotCreator, Message: "Only the creator may edit or delete the ticket", HTTPStatus: http.StatusForbidden},

	// User domain
	{Code: CodeUserAlreadyApproved, Message: "User approval status was already decided", HTTPStatus: http.StatusConflict},
	{Code: CodeUserInvalidRole, Message: "Role must be one of: admin, worker, viewer", HTTPStatus: http.StatusBadRequest},
	{Code: CodeUserViewerForbidden, Message: "Viewers cannot perform this action", HTTPStatus: http.StatusForbidden},

	// Backup domain
	{Code: CodeBackupBadVersionChain, Message: "previous_version_id must reference an earlier backup of the same owner and type", HTTPStatus: http.StatusBadRequest},
	{Code: CodeBackupInvalidRole, Message: "Access role must be viewer or editor", HTTPStatus: http.StatusBadRequest},
}

func init() {
	for _, e := range coreErrors {
		Registry.Register(e)
	}
}
