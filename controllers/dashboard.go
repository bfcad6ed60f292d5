package controllers

import (
	"log"
	"net/http"

	"agency-backoffice-api/middleware"
	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

// Home is the public entry page. It only reports whether a session cookie is
// present; the gate sends cookieless visitors of protected screens here.
func Home(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName())
	c.JSON(http.StatusOK, gin.H{
		"app":        "agency back office",
		"hasSession": err == nil && token != "",
	})
}

// GetDashboardStats returns the headline counters for the dashboard screen.
func GetDashboardStats(c *gin.Context) {
	stats, err := services.NewDashboardService(getDB()).Stats(c.Request.Context())
	if err != nil {
		log.Printf("dashboard stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"role":  c.GetString("role"),
	})
}
