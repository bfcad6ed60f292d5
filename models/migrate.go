package models

import "gorm.io/gorm"

// All lists every table owned by the application in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&PasswordResetToken{},
		&Policy{},
		&Notification{},
		&NotificationJobRun{},
		&Lead{},
		&Claim{},
		&ClaimDocument{},
		&Commission{},
		&Document{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
