package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

// Maintenance rejects requests while maintenance mode is enabled in system
// settings. Admins pass through so they can turn it off again. The setting
// is read per request; there is no caching layer.
func Maintenance(settings *repository.SettingsRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled, err := settings.GetBool(c.Request.Context(), models.SettingMaintenanceMode, false)
		if err != nil || !enabled {
			c.Next()
			return
		}
		if c.GetString(CtxUserRole) == models.RoleAdmin {
			c.Next()
			return
		}
		apierrors.Error(c, apierrors.CodeMaintenanceMode)
		c.Abort()
	}
}
