package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login("admin", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.AdminID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.Login("root", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateAdminToken(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AdminID, claims.AdminID)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAdminToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := NewAuthService("admin", "secret", "different-key")
		stolen, err := other.Login("admin", "secret")
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken(stolen.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
