package api

import (
	"crypto/subtle"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/auth"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
)

// exchangeSecretHeader carries the shared secret that authenticates the OAuth
// callback component. Identity claims in the sign-in body are only trusted
// when this header matches AUTH_EXCHANGE_SECRET.
const exchangeSecretHeader = "X-Auth-Exchange-Secret"

type signInRequest struct {
	ID        string `json:"id"`
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"full_name" binding:"required"`
	AvatarURL string `json:"avatar_url"`
	Username  string `json:"username"`
}

// handleSignIn exchanges a completed OAuth identity for a session token. The
// caller must be the trusted OAuth callback component, proven by the shared
// exchange secret; the identity fields in the body are otherwise unverifiable
// and an anonymous caller could mint a token for any known user ID. The user
// row is created on first sign-in with role worker and approval pending;
// later sign-ins only refresh profile fields. Pending users still get a token
// so they can see their approval state, but the approval gate blocks the rest
// of the API.
func (h *Handlers) handleSignIn(c *gin.Context) {
	secret := os.Getenv("AUTH_EXCHANGE_SECRET")
	if secret == "" {
		apierrors.ErrorWithMessage(c, apierrors.CodeServiceUnavailable,
			"sign-in exchange is not configured")
		return
	}
	provided := c.GetHeader(exchangeSecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		apierrors.Error(c, apierrors.CodeUnauthorized)
		return
	}

	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	user, err := h.Users.SignIn(c.Request.Context(), &models.User{
		ID:        req.ID,
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Username:  req.Username,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	token, err := auth.GetManager().Generate(user)
	if err != nil {
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}

	c.SetCookie("auth_token", token, 86400, "/", "", false, true)
	respondOK(c, gin.H{"token": token, "user": user})
}

// handleMe returns the authenticated user's current record.
func (h *Handlers) handleMe(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, user)
}

type linkTelegramRequest struct {
	Handle string `json:"handle" binding:"required"`
	ChatID string `json:"chat_id" binding:"required"`
}

// handleLinkTelegram stores the user's Telegram handle and chat ID so the
// bridge can address them.
func (h *Handlers) handleLinkTelegram(c *gin.Context) {
	var req linkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if err := h.Users.LinkTelegram(c.Request.Context(), middleware.UserID(c), req.Handle, req.ChatID); err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, gin.H{"linked": true})
}
