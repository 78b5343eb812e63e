package api

import (
	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
)

type createPromptBackupRequest struct {
	Title             string `json:"title" binding:"required"`
	PromptText        string `json:"prompt_text" binding:"required"`
	Description       string `json:"description"`
	PreviousVersionID string `json:"previous_version_id"`
}

func (h *Handlers) handleCreatePromptBackup(c *gin.Context) {
	var req createPromptBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	backup, err := h.Backups.CreatePromptBackup(c.Request.Context(), &models.AIPromptBackup{
		UserID:            middleware.UserID(c),
		Title:             req.Title,
		PromptText:        req.PromptText,
		Description:       req.Description,
		PreviousVersionID: req.PreviousVersionID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, backup)
}

func (h *Handlers) handleListPromptBackups(c *gin.Context) {
	page, perPage := pageParams(c)
	backups, err := h.Backups.ListPromptBackups(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, backups)
}

type createWorkflowBackupRequest struct {
	Title             string `json:"title" binding:"required"`
	WorkflowJSON      string `json:"workflow_json" binding:"required"`
	Filename          string `json:"filename"`
	Description       string `json:"description"`
	PreviousVersionID string `json:"previous_version_id"`
}

func (h *Handlers) handleCreateWorkflowBackup(c *gin.Context) {
	var req createWorkflowBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	backup, err := h.Backups.CreateWorkflowBackup(c.Request.Context(), &models.N8NProjectBackup{
		UserID:            middleware.UserID(c),
		Title:             req.Title,
		WorkflowJSON:      req.WorkflowJSON,
		Filename:          req.Filename,
		Description:       req.Description,
		PreviousVersionID: req.PreviousVersionID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, backup)
}

func (h *Handlers) handleListWorkflowBackups(c *gin.Context) {
	page, perPage := pageParams(c)
	backups, err := h.Backups.ListWorkflowBackups(c.Request.Context(), middleware.UserID(c), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, backups)
}

func (h *Handlers) handleListSharedBackups(c *gin.Context) {
	shares, err := h.Backups.ListSharedWithMe(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, shares)
}

type shareBackupRequest struct {
	BackupID   string `json:"backup_id" binding:"required"`
	BackupType string `json:"backup_type" binding:"required"`
	SharedWith string `json:"shared_with" binding:"required"`
	AccessRole string `json:"access_role" binding:"required"`
}

func (h *Handlers) handleShareBackup(c *gin.Context) {
	var req shareBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	share, err := h.Backups.Share(c.Request.Context(), req.BackupID, req.BackupType,
		middleware.UserID(c), req.SharedWith, req.AccessRole)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, share)
}
