package handler

import (
	"errors"
	"net/http"
	"strings"

	"catalogo/internal/app/catalog/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет Bearer токен на защищенных маршрутах
type AuthMiddleware struct {
	jwtManager *util.JWTManager
}

func NewAuthMiddleware(jwtManager *util.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.jwtManager.Validate(parts[1])
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set("username", claims.Username)

		c.Next()
	}
}
