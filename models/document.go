package models

import "time"

var DocumentTypes = map[string]string{
	"policy": "Policy Document",
	"kycId":  "KYC ID",
	"kycPin": "KYC PIN",
}

type Document struct {
	DocumentID uint      `gorm:"primaryKey;column:document_id" json:"document_id"`
	ClientName string    `gorm:"column:client_name" json:"client_name"`
	Name       string    `gorm:"column:name" json:"name"`
	Type       string    `gorm:"column:type;type:varchar(16)" json:"type"`
	StoredPath string    `gorm:"column:stored_path" json:"-"`
	MimeType   string    `gorm:"column:mime_type;type:varchar(128)" json:"mime_type"`
	SizeBytes  int64     `gorm:"column:size_bytes" json:"size_bytes"`
	UploadedBy uint      `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Document) TableName() string { return "documents" }

// GetFileSizeInMB is used by the documents screen.
func (d *Document) GetFileSizeInMB() float64 {
	return float64(d.SizeBytes) / (1024 * 1024)
}
