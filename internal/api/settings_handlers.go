package api

import (
	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
)

func (h *Handlers) handleListSettings(c *gin.Context) {
	settings, err := h.Settings.List(c.Request.Context())
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, settings)
}

type setSettingRequest struct {
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
}

// handleSetSetting upserts one system setting. Settings are read per request
// everywhere else, so a change takes effect immediately.
func (h *Handlers) handleSetSetting(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if req.ValueType == "" {
		req.ValueType = "string"
	}
	key := c.Param("key")
	if err := h.Settings.Set(c.Request.Context(), key, req.Value, req.ValueType); err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	respondOK(c, gin.H{"key": key, "value": req.Value})
}
