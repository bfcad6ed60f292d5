package middleware

import (
	"net/http"
	"strconv"
	"time"

	"agency-backoffice-api/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware caps requests per client IP for one route group.
func RateLimitMiddleware(limiter ratelimit.Limiter, scope string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		d := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP(), limit)
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			retry := d.RetryAfter(time.Now().UTC())
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many attempts. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
