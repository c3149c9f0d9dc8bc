package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"motri-backend/shared/config"
)

type Claims struct {
	DirectorID string `json:"director_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(config.GetConfig().JWTSecret)
}

// GetJWTExpireDuration gets the session token lifetime from config.
func GetJWTExpireDuration() time.Duration {
	hours := config.GetConfig().JWTExpireHours
	if hours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// GenerateJWT issues a signed session token for a director. Tokens are
// stateless and cannot be revoked before expiry.
func GenerateJWT(directorID uuid.UUID, email string) (string, error) {
	claims := Claims{
		DirectorID: directorID.String(),
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(GetJWTExpireDuration())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateJWT verifies signature and expiry and returns the claims.
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
