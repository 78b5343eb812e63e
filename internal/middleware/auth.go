// Package middleware provides the gin middleware chain: session auth, role
// gates, and maintenance mode.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/auth"
	"github.com/promptdesk/promptdesk/internal/models"
)

// Context keys set by the auth middleware.
const (
	CtxUserID         = "user_id"
	CtxUserRole       = "user_role"
	CtxApprovalStatus = "approval_status"
)

// ExtractToken reads the session token from the auth_token cookie, falling
// back to the Authorization header.
func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie("auth_token"); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// VerifyRequest extracts and verifies the session token without touching the
// context. Handlers that do their own auth routing use this directly.
func VerifyRequest(c *gin.Context) (*auth.Claims, error) {
	token := ExtractToken(c)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return auth.GetManager().Verify(token)
}

// Auth validates the session token and stores identity in the context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			apierrors.Error(c, apierrors.CodeUnauthorized)
			c.Abort()
			return
		}

		claims, err := auth.GetManager().Verify(token)
		if err != nil {
			code := apierrors.CodeInvalidToken
			if err == auth.ErrTokenExpired {
				code = apierrors.CodeTokenExpired
			}
			apierrors.Error(c, code)
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxApprovalStatus, claims.ApprovalStatus)
		c.Next()
	}
}

// RequireApproved blocks users whose account is still pending or rejected.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxApprovalStatus) != models.ApprovalApproved {
			apierrors.Error(c, apierrors.CodePendingApproval)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles through.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		apierrors.Error(c, apierrors.CodeForbidden)
		c.Abort()
	}
}

// RejectViewers blocks the viewer role from mutating endpoints.
func RejectViewers() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) == models.RoleViewer {
			apierrors.Error(c, apierrors.CodeUserViewerForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
