// Package api exposes the REST surface. Handlers stay thin: bind, call a
// service, translate domain errors to apierrors codes, wrap the result in the
// success envelope.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/service"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// pageParams reads page/per_page query values. Bounds are clamped again at
// the repository layer.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	return page, perPage
}

// serviceError maps a domain error to its registered API code.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.Error(c, apierrors.CodeNotFound)
	case errors.Is(err, service.ErrAlreadyEdited):
		apierrors.Error(c, apierrors.CodeTicketAlreadyEdited)
	case errors.Is(err, service.ErrTicketCompleted):
		apierrors.Error(c, apierrors.CodeTicketCompleted)
	case errors.Is(err, service.ErrNotAssignee):
		apierrors.Error(c, apierrors.CodeTicketNotAssignee)
	case errors.Is(err, service.ErrNotCreator):
		apierrors.Error(c, apierrors.CodeTicketNotCreator)
	case errors.Is(err, service.ErrInvalidUrgency):
		apierrors.Error(c, apierrors.CodeTicketInvalidUrgency)
	case errors.Is(err, models.ErrInvalidSolution):
		apierrors.Error(c, apierrors.CodeTicketInvalidSolution)
	case errors.Is(err, service.ErrAlreadyDecided):
		apierrors.Error(c, apierrors.CodeUserAlreadyApproved)
	case errors.Is(err, service.ErrInvalidRole):
		apierrors.Error(c, apierrors.CodeUserInvalidRole)
	case errors.Is(err, service.ErrViewerForbidden):
		apierrors.Error(c, apierrors.CodeUserViewerForbidden)
	case errors.Is(err, service.ErrBadVersionChain):
		apierrors.Error(c, apierrors.CodeBackupBadVersionChain)
	case errors.Is(err, service.ErrInvalidShareRole):
		apierrors.Error(c, apierrors.CodeBackupInvalidRole)
	default:
		apierrors.Error(c, apierrors.CodeInternalError)
	}
}
