package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationJobRunStatusRunning = "running"
	NotificationJobRunStatusSuccess = "success"
	NotificationJobRunStatusFailed  = "failed"
)

type NotificationJobRun struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	TriggerSource string     `json:"trigger_source" gorm:"type:varchar(64);not null"`
	Status        string     `json:"status" gorm:"type:varchar(16);not null;default:'running'"`
	ErrorMessage  *string    `json:"error_message" gorm:"type:text"`
	StartedAt     time.Time  `json:"started_at" gorm:"column:started_at;autoCreateTime"`
	FinishedAt    *time.Time `json:"finished_at" gorm:"column:finished_at"`

	PoliciesFound        uint `json:"policies_found" gorm:"column:policies_found;not null;default:0"`
	NotificationsCreated uint `json:"notifications_created" gorm:"column:notifications_created;not null;default:0"`
	NotificationsSkipped uint `json:"notifications_skipped" gorm:"column:notifications_skipped;not null;default:0"`
	NotificationsFailed  uint `json:"notifications_failed" gorm:"column:notifications_failed;not null;default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"column:deleted_at;index"`
}

func (NotificationJobRun) TableName() string { return "notification_job_runs" }
