package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	utils "motri-backend/shared/utils/auth"
)

// Context keys set by AuthMiddleware.
const (
	ContextDirectorID    = "directorID"
	ContextDirectorEmail = "directorEmail"
)

// AuthMiddleware validates the bearer session token and sets the director
// identity in the request context. Missing token, bad signature and expiry
// all produce the same 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
			c.Abort()
			return
		}

		directorID, err := uuid.Parse(claims.DirectorID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
			c.Abort()
			return
		}

		c.Set(ContextDirectorID, directorID)
		c.Set(ContextDirectorEmail, claims.Email)

		c.Next()
	}
}
