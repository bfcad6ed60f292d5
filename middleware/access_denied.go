package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const accessDeniedPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Access Denied</title>
<style>
  body { font-family: system-ui, sans-serif; background: #f9fafb; color: #111827; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; }
  .card { background: #fff; border: 1px solid #e5e7eb; border-radius: 12px; padding: 32px 40px; text-align: center; }
  h1 { margin: 0 0 8px 0; font-size: 24px; }
  a { color: #2563eb; }
</style>
</head>
<body>
<div class="card">
  <h1>Access Denied</h1>
  <p>You do not have permission to view this page.</p>
  <p><a href="/">Back to home</a></p>
</div>
</body>
</html>`

// AbortAccessDenied ends the request with the access-denied view: an HTML
// page for browsers, JSON for everything else.
func AbortAccessDenied(c *gin.Context, status int, reason string) {
	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		c.Data(status, "text/html; charset=utf-8", []byte(accessDeniedPage))
	default:
		c.JSON(status, gin.H{"error": reason})
	}
	c.Abort()
}

// AbortUnauthorized is the outcome for a missing, invalid or expired session.
func AbortUnauthorized(c *gin.Context) {
	AbortAccessDenied(c, http.StatusUnauthorized, "Unauthorized")
}
