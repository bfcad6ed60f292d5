package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"agency-backoffice-api/config"
	"agency-backoffice-api/services"
)

// newMailer returns nil when SMTP is not configured.
var newMailer = func() config.Mailer {
	m := config.NewSMTPMailer(config.Current)
	if !m.Configured() {
		return nil
	}
	return m
}

var newExpiryJob = func() *services.ExpiryNotificationJobService {
	svc := services.NewExpiryNotificationJobService(getDB(), services.NewJobLocker(getDB(), config.Redis))
	if config.Current.ExpiryDigestEmail {
		if m := newMailer(); m != nil {
			svc.WithMailer(m)
		}
	}
	return svc
}

// GET /api/send-policy-notifications
func SendPolicyNotifications(c *gin.Context) {
	summary, err := newExpiryJob().Run(c.Request.Context(), &services.ExpiryJobInput{
		TriggerSource: "http",
		LockName:      services.ExpiryJobLockName,
		RecordRun:     true,
		SendDigest:    config.Current.ExpiryDigestEmail,
	})
	if err != nil {
		if errors.Is(err, services.ErrExpiryJobAlreadyRunning) {
			c.String(http.StatusConflict, "Expiry notification job already running")
			return
		}
		log.Printf("expiry notification job failed: %v", err)
		c.String(http.StatusInternalServerError, "Failed to create expiry notifications")
		return
	}

	if summary.Failed > 0 {
		c.JSON(http.StatusMultiStatus, gin.H{
			"created": summary.Created,
			"failed":  summary.Failed,
			"skipped": summary.Skipped,
			"errors":  summary.Errors,
		})
		return
	}
	if summary.Found == 0 {
		c.String(http.StatusCreated, "No expiring policies found")
		return
	}
	c.String(http.StatusCreated, "Created %d notifications for expiring policies", summary.Created)
}

// GET /api/notification-job-runs (admin)
func ListNotificationJobRuns(c *gin.Context) {
	runs, err := services.NewNotificationJobRunService(getDB()).Latest(20)
	if err != nil {
		log.Printf("listing job runs failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load job runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
