package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fingestao/fingestao-api/utils"
)

const userIDKey = "user_id"

// AuthMiddleware validates the bearer access token and stores the
// authenticated user id on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			c.Abort()
			return
		}

		userID, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), utils.TokenTypeAccess)
		if err != nil {
			msg := "Token inválido"
			if errors.Is(err, utils.ErrExpiredToken) {
				msg = "Token expirado"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id set by AuthMiddleware, or ""
// on an unauthenticated request.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
