package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateJWT("user-1", "vendor", "v@example.com")
	require.NoError(t, err)

	claims, err := m.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "vendor", claims.Role)
	assert.Equal(t, "v@example.com", claims.Email)
}

func TestParseJWTRejectsOtherSecret(t *testing.T) {
	token, err := NewJWTManager("secret", time.Hour).GenerateJWT("user-1", "customer", "")
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateJWT("user-1", "customer", "")
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Minute).ParseJWT(token)
	assert.Error(t, err)
}
