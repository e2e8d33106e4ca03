package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"suraksha.com/preparedness/internal/auth"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
)

type AuthMiddleware struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthMiddleware(users repository.UserRepository, tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		users:  users,
		tokens: tokens,
	}
}

// RequireAuth validates the bearer token as an access token and loads the
// account. All token failures produce the same response so callers cannot
// tell which check failed. Inactive accounts are rejected after the token
// checks but before any role check.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := m.tokens.Verify(tokenString, auth.TokenAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			c.Abort()
			return
		}

		user, err := m.users.FindByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "inactive user"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID.String())
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		user, ok := value.(*model.User)
		if !ok || user.Role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
