package testutil

import (
	"testing"
	"time"

	"agency-backoffice-api/config"

	"gorm.io/gorm"
)

// TestSessionSecret signs session cookies in handler tests.
const TestSessionSecret = "test-session-secret"

// UseGlobals points config.DB and config.Current at test values and restores
// the previous ones when the test ends.
func UseGlobals(t *testing.T, db *gorm.DB) *config.Settings {
	t.Helper()
	prevDB, prevSettings, prevRedis := config.DB, config.Current, config.Redis

	s := &config.Settings{
		GinMode:           "test",
		SessionSecret:     TestSessionSecret,
		SessionTTL:        10 * time.Minute,
		SessionCookieName: "session_token",
		LoginRateLimit:    100,
		AppBaseURL:        "http://localhost:3000/",
		UploadPath:        t.TempDir(),
	}
	config.DB = db
	config.Current = s
	config.Redis = nil

	t.Cleanup(func() {
		config.DB, config.Current, config.Redis = prevDB, prevSettings, prevRedis
	})
	return s
}
