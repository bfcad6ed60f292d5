package models

import "time"

const (
	LeadStatusNew       = "new"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

var (
	LeadStatuses   = []string{LeadStatusNew, LeadStatusConverted, LeadStatusLost}
	LeadPriorities = []string{"low", "high"}
	LeadSources    = []string{"referral", "call", "social_media"}
)

type Lead struct {
	LeadID      uint      `gorm:"primaryKey;column:lead_id" json:"lead_id"`
	FullName    string    `gorm:"column:full_name" json:"full_name"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(32)" json:"phone_number"`
	Email       *string   `gorm:"column:email" json:"email,omitempty"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;default:'new'" json:"status"`
	Priority    string    `gorm:"column:priority;type:varchar(16)" json:"priority"`
	Source      string    `gorm:"column:source;type:varchar(32)" json:"source"`
	Notes       *string   `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }
