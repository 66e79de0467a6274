package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scriptorium/internal/services"
)

// AuthUserKey is the gin context key the middleware stores the identity under.
const AuthUserKey = "auth_user"

// LoadUser parses a Bearer token when one is present and attaches the
// identity to the context. Requests without a valid token pass through
// anonymously.
func LoadUser(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := auth.ParseAccessToken(token); err == nil {
				c.Set(AuthUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a valid Bearer token.
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := auth.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// AdminRequired rejects authenticated requests from non-admin users. It must
// run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity set by LoadUser/AuthRequired, or nil for
// anonymous requests.
func CurrentUser(c *gin.Context) *services.AuthUser {
	val, ok := c.Get(AuthUserKey)
	if !ok {
		return nil
	}
	user, ok := val.(*services.AuthUser)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
