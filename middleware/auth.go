package middleware

import (
	"errors"
	"log"
	"net/http"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie that carries the signed session token.
func SessionCookieName() string {
	if name := config.Current.SessionCookieName; name != "" {
		return name
	}
	return "session_token"
}

// RequireSession resolves the session cookie against the session store and
// loads the user. Missing, forged, revoked and expired sessions all end in 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName())
		if err != nil || token == "" {
			AbortUnauthorized(c)
			return
		}

		sess, err := services.NewDefaultSessionService().Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrSessionNotFound) &&
				!errors.Is(err, services.ErrSessionExpired) &&
				!errors.Is(err, services.ErrInvalidSessionToken) {
				log.Printf("session lookup failed: %v", err)
			}
			AbortUnauthorized(c)
			return
		}

		// Set user info in context
		c.Set("userID", sess.UserID)
		c.Set("email", sess.User.Email)
		c.Set("role", sess.User.Role)
		c.Set("sessionID", sess.Token)
		c.Set("user", &sess.User)

		c.Next()
	}
}

// RequireRole checks if user has one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return requireRole("Insufficient permissions", roles...)
}

// AdminOnly restricts a route to admins. action completes the message
// "Only admins can ..." returned to in-page mutations.
func AdminOnly(action string) gin.HandlerFunc {
	return requireRole("Only admins can "+action, models.RoleAdmin)
}

func requireRole(message string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := services.Authorize(c.GetString("role"), roles...)
		if err == nil {
			c.Next()
			return
		}
		if !errors.Is(err, services.ErrForbidden) {
			AbortUnauthorized(c)
			return
		}

		// Screens get the access-denied view, mutations a result envelope.
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			AbortAccessDenied(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": message})
		c.Abort()
	}
}
