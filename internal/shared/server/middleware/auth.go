package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobs-backend/internal/shared/auth"
	"jobs-backend/internal/shared/server/respond"
)

const (
	adminIDKey   = "adminId"
	adminNameKey = "adminName"

	// SessionCookie carries the admin token for browser clients.
	SessionCookie = "jobs_admin_session"
)

// TokenVerifier validates admin session tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Auth requires a valid admin token from the Authorization header or the session cookie.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token := ""
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		} else if cookie, err := c.Cookie(SessionCookie); err == nil {
			token = strings.TrimSpace(cookie)
		}

		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "please log in to access this page", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(adminIDKey, claims.AdminID)
		c.Set(adminNameKey, claims.Subject)
		c.Next()
	}
}

// AdminNameFromContext fetches the admin username set by the auth middleware.
func AdminNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(adminNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

// AdminIDFromContext fetches the admin id set by the auth middleware.
func AdminIDFromContext(c *gin.Context) int64 {
	if c == nil {
		return 0
	}
	val, _ := c.Get(adminIDKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}
