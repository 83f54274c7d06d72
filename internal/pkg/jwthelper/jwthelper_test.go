package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	signingKey := []byte("test-signing-key")

	t.Run("should round-trip the claims", func(t *testing.T) {
		req := require.New(t)

		token, err := GenerateToken(signingKey, 42, "test-agent")
		req.NoError(err)
		req.NotEmpty(token)

		claims, err := ParseToken(signingKey, token)
		req.NoError(err)
		req.Equal(uint(42), claims.UserID)
		req.Equal("test-agent", claims.UserAgent)
	})

	t.Run("should reject a token signed with another key", func(t *testing.T) {
		req := require.New(t)

		token, err := GenerateToken([]byte("other-key"), 42, "test-agent")
		req.NoError(err)

		_, err = ParseToken(signingKey, token)
		req.Error(err)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := ParseToken(signingKey, "not.a.token")
		require.Error(t, err)
	})
}
