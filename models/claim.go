package models

import "time"

var (
	ClaimStatuses = []string{"Pending", "Approved", "Paid", "Reject"}
	ClaimTypes    = []string{"Accident", "Fire", "Theft", "Flood", "Vandalism", "Other"}
)

// A policy with claims cannot be deleted; see Policy.Claims for the
// restricting foreign key.
type Claim struct {
	ClaimID          uint      `gorm:"primaryKey;column:claim_id" json:"claim_id"`
	PolicyID         uint      `gorm:"column:policy_id;index;not null" json:"policy_id"`
	IncidentDate     time.Time `gorm:"column:incident_date" json:"incident_date"`
	Type             string    `gorm:"column:type;type:varchar(32)" json:"type"`
	EstimatedLossKes float64   `gorm:"column:estimated_loss_kes" json:"estimated_loss_kes"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	Status           string    `gorm:"column:status;type:varchar(16);not null;default:'Pending'" json:"status"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Policy            Policy          `gorm:"-:migration" json:"policy,omitempty"`
	EvidenceDocuments []ClaimDocument `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"evidence_documents,omitempty"`
}

func (Claim) TableName() string { return "claims" }

type ClaimDocument struct {
	ClaimDocumentID uint      `gorm:"primaryKey;column:claim_document_id" json:"claim_document_id"`
	ClaimID         uint      `gorm:"column:claim_id;index;not null" json:"claim_id"`
	Name            string    `gorm:"column:name" json:"name"`
	StoredPath      string    `gorm:"column:stored_path" json:"-"`
	SizeBytes       int64     `gorm:"column:size_bytes" json:"size_bytes"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ClaimDocument) TableName() string { return "claim_documents" }
