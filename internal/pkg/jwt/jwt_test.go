package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "ann@company.com", "EMP001", user.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	role, _ := decoded.Get("role")
	assert.Equal(t, "employee", role)
	tokenType, _ := decoded.Get("type")
	assert.Equal(t, "access", tokenType)
	code, _ := decoded.Get("employee_code")
	assert.Equal(t, "EMP001", code)
}

func TestSSEToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresIn, err := svc.GenerateSSEToken("manager-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "manager-1", userID)

	access, _, err := svc.GenerateAccessToken("manager-1", "m@company.com", "MGR001", user.RoleManager)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err, "access tokens must not open streams")

	other := NewJWTService("other-secret", time.Hour)
	_, err = other.ValidateSSEToken(token)
	assert.Error(t, err)
}
