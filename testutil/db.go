package testutil

import (
	"testing"
	"time"

	"agency-backoffice-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory SQLite database with foreign keys enabled and
// every application table migrated. It is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})
	return db
}

// CreateUser inserts a user with the given role. The password is stored as is.
func CreateUser(t *testing.T, db *gorm.DB, email, role, password string) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, Role: role, Password: password}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return u
}

// CreatePolicy inserts a policy with the given status and expiry.
func CreatePolicy(t *testing.T, db *gorm.DB, number, status string, expiry time.Time) *models.Policy {
	t.Helper()
	p := &models.Policy{
		PolicyNumber: number,
		ClientName:   "Client " + number,
		Insurer:      "Acme Insurance",
		Type:         "motor_insurance",
		Status:       status,
		Premium:      1000,
		SumInsured:   100000,
		StartDate:    expiry.AddDate(-1, 0, 0),
		ExpiryDate:   expiry,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("creating policy %s: %v", number, err)
	}
	return p
}

// CreateNotification inserts a notification, optionally tied to a policy.
func CreateNotification(t *testing.T, db *gorm.DB, policyID *uint, typ string, read bool) *models.Notification {
	t.Helper()
	n := &models.Notification{
		PolicyID:  policyID,
		Type:      typ,
		Title:     "Test",
		Message:   "test notification",
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("creating notification: %v", err)
	}
	if read {
		if err := db.Model(n).Update("is_read", true).Error; err != nil {
			t.Fatalf("marking notification read: %v", err)
		}
	}
	return n
}
