package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ProtectedPrefixes are the back-office screens that need a session cookie.
var ProtectedPrefixes = []string{
	"/dashboard",
	"/policies",
	"/claims",
	"/documents",
	"/commissions",
	"/leads",
	"/users",
}

// IsProtectedPath reports whether path is one of ProtectedPrefixes or below it.
func IsProtectedPath(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// SessionGate redirects cookieless requests for protected screens to the
// entry page. It only looks at cookie presence; RequireSession validates it.
func SessionGate(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsProtectedPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		if token, err := c.Cookie(cookieName); err != nil || token == "" {
			c.Redirect(http.StatusTemporaryRedirect, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
