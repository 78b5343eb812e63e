package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
)

type projectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Progress    int    `json:"progress"`
	AssignedTo  string `json:"assigned_to"`
}

func (h *Handlers) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	project, err := h.Projects.Create(c.Request.Context(), &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Progress:    req.Progress,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   middleware.UserID(c),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, project)
}

func (h *Handlers) handleListProjects(c *gin.Context) {
	page, perPage := pageParams(c)
	projects, err := h.Projects.List(c.Request.Context(), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, projects)
}

func (h *Handlers) handleGetProject(c *gin.Context) {
	project, err := h.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, project)
}

func (h *Handlers) handleUpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	project, err := h.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Status = req.Status
	project.Priority = req.Priority
	project.Progress = req.Progress
	project.AssignedTo = req.AssignedTo
	if err := h.Projects.Update(c.Request.Context(), project); err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, project)
}

func (h *Handlers) handleDeleteProject(c *gin.Context) {
	if err := h.Projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
