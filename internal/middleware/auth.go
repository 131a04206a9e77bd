package middleware

import (
	"context"
	"net/http"
	"strings"

	"school-navigator/internal/models"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionResolver looks up the session behind a session token
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// SessionMiddleware attaches the caller's session to the request. Requests
// without an Authorization header continue as the anonymous viewer; a header
// carrying an unusable token is rejected.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(sessionKey, models.AnonymousSession())
			c.Next()
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin checks if the current session holds the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session.ID == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if !session.IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentSession returns the session attached by SessionMiddleware, or the
// anonymous viewer when there is none
func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*models.Session); ok && session != nil {
			return session
		}
	}
	return models.AnonymousSession()
}
