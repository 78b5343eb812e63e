package apierrors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreCodesRegistered(t *testing.T) {
	for _, code := range []string{
		CodeUnauthorized, CodeForbidden, CodeNotFound, CodeMaintenanceMode,
		CodeTicketAlreadyEdited, CodeTicketCompleted, CodeTicketInvalidSolution,
		CodeUserAlreadyApproved, CodeBackupBadVersionChain,
	} {
		e, ok := Registry.Get(code)
		require.True(t, ok, "code %s not registered", code)
		assert.NotEmpty(t, e.Message)
		assert.NotZero(t, e.HTTPStatus)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Registry.HTTPStatus(CodeUnauthorized))
	assert.Equal(t, http.StatusConflict, Registry.HTTPStatus(CodeTicketAlreadyEdited))
	assert.Equal(t, http.StatusForbidden, Registry.HTTPStatus(CodeTicketNotAssignee))
	assert.Equal(t, http.StatusServiceUnavailable, Registry.HTTPStatus(CodeMaintenanceMode))

	// Unknown codes degrade to 500 and echo the code as the message.
	assert.Equal(t, http.StatusInternalServerError, Registry.HTTPStatus("nope:missing"))
	assert.Equal(t, "nope:missing", Registry.Message("nope:missing"))
}

func TestByNamespace(t *testing.T) {
	tickets := Registry.ByNamespace("ticket")
	require.NotEmpty(t, tickets)
	for _, e := range tickets {
		assert.Contains(t, e.Code, "ticket:")
	}
}
