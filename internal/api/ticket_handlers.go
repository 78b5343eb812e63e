package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/service"
)

type createTicketRequest struct {
	Title      string `json:"title" binding:"required"`
	Urgency    string `json:"urgency" binding:"required"`
	Details    string `json:"details"`
	Deadline   string `json:"deadline"`
	AssignedTo string `json:"assigned_to" binding:"required"`
}

// parseDeadline accepts RFC 3339 or a bare date. An empty value means no
// deadline.
func parseDeadline(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (h *Handlers) handleCreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "deadline must be RFC 3339 or YYYY-MM-DD")
		return
	}

	ticket, err := h.Tickets.Create(c.Request.Context(), &service.CreateTicketInput{
		Title:      req.Title,
		Urgency:    req.Urgency,
		Details:    req.Details,
		Deadline:   deadline,
		AssignedTo: req.AssignedTo,
		CreatedBy:  middleware.UserID(c),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, ticket)
}

func (h *Handlers) handleListTickets(c *gin.Context) {
	page, perPage := pageParams(c)
	tickets, err := h.Tickets.List(c.Request.Context(), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, tickets)
}

func (h *Handlers) handleListAssignedTickets(c *gin.Context) {
	page, perPage := pageParams(c)
	tickets, err := h.Tickets.ListAssigned(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, tickets)
}

func (h *Handlers) handleListCreatedTickets(c *gin.Context) {
	page, perPage := pageParams(c)
	tickets, err := h.Tickets.ListCreated(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, tickets)
}

func (h *Handlers) handleGetTicket(c *gin.Context) {
	ticket, err := h.Tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, ticket)
}

func (h *Handlers) handleStartTicket(c *gin.Context) {
	ticket, err := h.Tickets.Start(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, ticket)
}

type completeTicketRequest struct {
	Solution     models.Solution `json:"solution" binding:"required"`
	OutputResult string          `json:"output_result"`
}

func (h *Handlers) handleCompleteTicket(c *gin.Context) {
	var req completeTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	ticket, err := h.Tickets.Complete(c.Request.Context(), c.Param("id"), middleware.UserID(c), &req.Solution, req.OutputResult)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, ticket)
}

type editTicketRequest struct {
	Title      string `json:"title" binding:"required"`
	Urgency    string `json:"urgency" binding:"required"`
	Details    string `json:"details"`
	Deadline   string `json:"deadline"`
	AssignedTo string `json:"assigned_to" binding:"required"`
}

func (h *Handlers) handleEditTicket(c *gin.Context) {
	var req editTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "deadline must be RFC 3339 or YYYY-MM-DD")
		return
	}

	ticket, err := h.Tickets.Edit(c.Request.Context(), c.Param("id"), middleware.UserID(c), &repository.TicketEdit{
		Title:      req.Title,
		Urgency:    req.Urgency,
		Details:    req.Details,
		Deadline:   deadline,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, ticket)
}

func (h *Handlers) handleDeleteTicket(c *gin.Context) {
	if err := h.Tickets.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
