package api

import (
	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
)

func (h *Handlers) handleListUsers(c *gin.Context) {
	page, perPage := pageParams(c)
	users, err := h.Users.List(c.Request.Context(), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, users)
}

func (h *Handlers) handleApproveUser(c *gin.Context) {
	user, err := h.Users.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *Handlers) handleRejectUser(c *gin.Context) {
	user, err := h.Users.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, user)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handlers) handleSetUserRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	user, err := h.Users.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, user)
}
