package models

import "time"

const (
	PolicyStatusActive    = "active"
	PolicyStatusPending   = "pending"
	PolicyStatusCancelled = "cancelled"
)

var PolicyStatuses = []string{PolicyStatusActive, PolicyStatusPending, PolicyStatusCancelled}

var PolicyTypes = []string{
	"life_insurance",
	"health_insurance",
	"motor_insurance",
	"property_insurance",
	"travel_insurance",
	"personal_accident_insurance",
	"group_personal_accident_insurance",
	"WIBA_insurance",
	"all_risks_insurance",
	"public_liability_insurance",
}

type Policy struct {
	PolicyID                  uint      `gorm:"primaryKey;column:policy_id" json:"policy_id"`
	PolicyNumber              string    `gorm:"column:policy_number;type:varchar(64);uniqueIndex;not null" json:"policy_number"`
	ClientName                string    `gorm:"column:client_name" json:"client_name"`
	ClientPhone               *string   `gorm:"column:client_phone" json:"client_phone,omitempty"`
	Insurer                   string    `gorm:"column:insurer" json:"insurer"`
	VehicleRegistrationNumber *string   `gorm:"column:vehicle_registration_number" json:"vehicle_registration_number,omitempty"`
	Type                      string    `gorm:"column:type;type:varchar(64)" json:"type"`
	Status                    string    `gorm:"column:status;type:varchar(16);index;not null;default:'pending'" json:"status"`
	Premium                   float64   `gorm:"column:premium" json:"premium"`
	SumInsured                float64   `gorm:"column:sum_insured" json:"sum_insured"`
	StartDate                 time.Time `gorm:"column:start_date" json:"start_date"`
	ExpiryDate                time.Time `gorm:"column:expiry_date;index" json:"expiry_date"`
	CreatedAt                 time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Foreign keys pointing at policies are declared here so gorm attaches
	// them to the child tables.
	Claims        []Claim        `gorm:"foreignKey:PolicyID;constraint:OnDelete:RESTRICT" json:"-"`
	Commissions   []Commission   `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:PolicyID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Policy) TableName() string { return "policies" }
