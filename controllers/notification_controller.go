package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agency-backoffice-api/config"
	"agency-backoffice-api/services"
)

/* ==========================
   Helpers
   ========================== */

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case uint:
			return t, true
		case int:
			return uint(t), true
		case int64:
			return uint(t), true
		}
	}
	return 0, false
}

/* ==========================
   Notification endpoints
   ========================== */

// GET /api/notifications/unread-count
func GetUnreadCount(c *gin.Context) {
	count, err := services.NewNotificationService(getDB()).UnreadCount(c.Request.Context())
	if err != nil {
		log.Printf("unread count failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GET /notifications
// Lists every notification newest first and marks them all read. The unread
// count in the response is the one before marking.
func GetNotifications(c *gin.Context) {
	feed, err := services.NewNotificationService(getDB()).ViewFeed(c.Request.Context())
	if err != nil {
		log.Printf("notification feed failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// POST /notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewNotificationService(getDB()).MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotificationMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		log.Printf("mark notification %d read failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
