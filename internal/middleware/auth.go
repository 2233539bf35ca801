package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alissonfar/expense-hub-sub001/internal/auth"
)

const (
	// UserIDKey is the gin context key for the authenticated user ID.
	UserIDKey = "user_id"
	// EmailKey is the gin context key for the authenticated user's email.
	EmailKey = "email"
	// IsGodKey is the gin context key for the god-mode flag.
	IsGodKey = "is_god"
)

// GetUserID extracts the authenticated user ID from the gin context.
// Returns 0 if not found.
func GetUserID(c *gin.Context) int {
	id, _ := c.Get(UserIDKey)
	userID, _ := id.(int)
	return userID
}

// RequireAuth validates the Bearer token and stores the user identity on the
// context for downstream handlers.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(IsGodKey, claims.IsGod)
		c.Next()
	}
}

// RequireGod allows only god-mode users through. Must run after RequireAuth.
func RequireGod() gin.HandlerFunc {
	return func(c *gin.Context) {
		isGod, _ := c.Get(IsGodKey)
		if god, ok := isGod.(bool); !ok || !god {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"erro": "Acesso restrito a administradores"})
			return
		}
		c.Next()
	}
}
