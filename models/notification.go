package models

import "time"

const NotificationTypePolicyExpiry = "policy_expiry"

// Notification rows are never deleted by the application. At most one row per
// (policy_id, type) exists; rows without a policy are unconstrained.
type Notification struct {
	NotificationID uint      `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	PolicyID       *uint     `gorm:"column:policy_id;uniqueIndex:idx_notifications_policy_type" json:"policy_id,omitempty"`
	Type           string    `gorm:"column:type;type:varchar(32);not null;default:'info';uniqueIndex:idx_notifications_policy_type" json:"type"`
	Title          string    `gorm:"column:title" json:"title"`
	Message        string    `gorm:"column:message;type:text" json:"message"`
	IsRead         bool      `gorm:"column:is_read;index;not null;default:false" json:"read"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	// Constraint lives on Policy.Notifications.
	Policy *Policy `gorm:"-:migration" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
