package utils

import (
	"testing"

	"gestionale/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := models.User{
		Base:  models.Base{ID: "user-1"},
		Email: "segreteria@example.com",
		Role:  models.UserRoleSegreteria,
	}

	token, err := GenerateJWT(user, "test-secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "segreteria@example.com", claims.Email)
	assert.Equal(t, "SEGRETERIA", claims.Role)
	assert.False(t, claims.IsAdmin)
}

func TestJWTAdminClaim(t *testing.T) {
	token, err := GenerateJWT(models.User{
		Base: models.Base{ID: "root"},
		Role: models.UserRoleAdmin,
	}, "test-secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestJWTSecretMismatchRejected(t *testing.T) {
	user := models.User{Base: models.Base{ID: "user-1"}, Role: models.UserRoleAgente}

	// A token issued under one secret must not verify under another: the
	// issuing and verifying sides share the configured secret, with no
	// fallback to a different default on either side.
	token, err := GenerateJWT(user, "")
	require.NoError(t, err)
	_, err = ParseJWT(token, "your-secret-key")
	assert.Error(t, err)

	token, err = GenerateJWT(user, "your-secret-key")
	require.NoError(t, err)
	_, err = ParseJWT(token, "")
	assert.Error(t, err)
	claims, err := ParseJWT(token, "your-secret-key")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}
