package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motri-backend/shared/config"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	directorID := uuid.New()

	token, err := GenerateJWT(directorID, "director@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, directorID.String(), claims.DirectorID)
	assert.Equal(t, "director@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)

	_, err = ValidateJWT("")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	claims := Claims{
		DirectorID: uuid.New().String(),
		Email:      "director@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.GetConfig().JWTSecret))
	require.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	claims := Claims{
		DirectorID: uuid.New().String(),
		Email:      "director@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("a-different-secret"))
	require.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}
