// Package auth issues and verifies the session tokens minted after the
// external OAuth exchange.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/promptdesk/promptdesk/internal/models"
)

// Token verification errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

const defaultTokenTTL = 24 * time.Hour

// Claims carried by a session token.
type Claims struct {
	Role           string `json:"role"`
	ApprovalStatus string `json:"approval_status"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 session tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a manager with the given secret and token lifetime.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

var (
	globalManager *JWTManager
	managerOnce   sync.Once
)

// GetManager returns the shared JWT manager configured from JWT_SECRET and
// JWT_TTL. Outside production a missing secret is generated so development
// setups work without configuration.
func GetManager() *JWTManager {
	managerOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		env := strings.ToLower(os.Getenv("APP_ENV"))
		if secret == "" && env != "production" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err == nil {
				secret = hex.EncodeToString(b)
			}
		}

		ttl := defaultTokenTTL
		if raw := os.Getenv("JWT_TTL"); raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
				ttl = parsed
			}
		}

		globalManager = NewJWTManager(secret, ttl)
	})
	return globalManager
}

// Generate mints a session token for the user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:           user.Role,
		ApprovalStatus: user.ApprovalStatus,
		Email:          user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "promptdesk",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a session token.
func (m *JWTManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
