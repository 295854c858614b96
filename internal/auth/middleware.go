package auth

import (
	"strings"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "auth.userID"
	roleKey   = "auth.role"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity on the gin context.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.Error(&errors.AuthError{Message: "Access token required"})
			c.Abort()
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			c.Error(&errors.AuthError{Message: "Insufficient permissions", Forbidden: true})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}
