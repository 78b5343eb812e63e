package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdesk/promptdesk/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:             "u-1",
		Email:          "worker@example.com",
		Role:           models.RoleWorker,
		ApprovalStatus: models.ApprovalApproved,
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(testUser())
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, models.RoleWorker, claims.Role)
	assert.Equal(t, models.ApprovalApproved, claims.ApprovalStatus)
	assert.Equal(t, "worker@example.com", claims.Email)
	assert.Equal(t, "promptdesk", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(testUser())
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewJWTManager("test-secret", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Millisecond)

	token, err := m.Generate(testUser())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
