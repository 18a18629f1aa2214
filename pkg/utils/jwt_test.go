package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "bob", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	userID := uuid.New()

	valid, err := GenerateToken(userID, "bob", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(userID, "bob", "secret", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"garbage", "not-a-jwt", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateToken(uuid.New(), "bob", "", time.Hour)
	assert.Error(t, err)
}

func TestConfirmationCodeHash(t *testing.T) {
	code, err := GenerateConfirmationCode(12)
	require.NoError(t, err)
	assert.Len(t, code, 12)

	hash, err := HashCode(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)
	assert.True(t, CheckCodeHash(code, hash))
	assert.False(t, CheckCodeHash(code+"x", hash))
}
