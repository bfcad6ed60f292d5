package models

import "time"

const (
	CommissionStatusPaid    = "Paid"
	CommissionStatusPending = "Pending"
)

type Commission struct {
	CommissionID   uint      `gorm:"primaryKey;column:commission_id" json:"commission_id"`
	PolicyID       uint      `gorm:"column:policy_id;index;not null" json:"policy_id"`
	Amount         float64   `gorm:"column:amount" json:"amount"`
	Status         string    `gorm:"column:status;type:varchar(16);not null;default:'Pending'" json:"status"`
	CommissionDate time.Time `gorm:"column:commission_date" json:"commission_date"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Policy Policy `gorm:"-:migration" json:"policy,omitempty"`
}

func (Commission) TableName() string { return "commissions" }
