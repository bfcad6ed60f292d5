package monitor

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

const (
	defaultLogLines = 200
	maxLogLines     = 2000
)

// RegisterRoutes mounts the operator endpoints on group. The caller is
// responsible for guarding the group.
func RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/status", status)
	group.GET("/logs", logs)
}

type componentStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{
		"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"database":       pingDatabase(ctx),
	}
	if config.Redis != nil {
		st := componentStatus{OK: true}
		if err := config.Redis.Ping(ctx).Err(); err != nil {
			st = componentStatus{Error: err.Error()}
		}
		body["redis"] = st
	}

	if config.DB != nil {
		if runs, err := services.NewNotificationJobRunService(config.DB).Latest(1); err == nil && len(runs) > 0 {
			body["last_expiry_run"] = runs[0]
		}
	}

	c.JSON(http.StatusOK, body)
}

func pingDatabase(ctx context.Context) componentStatus {
	if config.DB == nil {
		return componentStatus{Error: "not initialised"}
	}
	sqlDB, err := config.DB.DB()
	if err != nil {
		return componentStatus{Error: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentStatus{Error: err.Error()}
	}
	return componentStatus{OK: true}
}

// logs returns the last ?lines= lines of the API log file as plain text.
func logs(c *gin.Context) {
	n := defaultLogLines
	if raw := c.Query("lines"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines must be a positive integer"})
			return
		}
		n = v
	}
	if n > maxLogLines {
		n = maxLogLines
	}

	data, err := os.ReadFile(config.LogFilePath())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(tail(string(data), n)))
}

func tail(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n") + "\n"
}
