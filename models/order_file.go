package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderFile represents a document uploaded against an order (client
// materials, drafts, final deliverables). The bytes live in S3; only
// the key is stored here.
type OrderFile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OrderID      uint           `gorm:"not null;index" json:"order_id"`
	Order        Order          `gorm:"foreignKey:OrderID" json:"-"`
	UploadedByID uint           `gorm:"not null" json:"uploaded_by_id"`
	UploadedBy   User           `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
	S3Key        string         `gorm:"not null" json:"s3_key"`
	OriginalName string         `gorm:"not null" json:"original_name"`
	SizeBytes    int64          `gorm:"not null" json:"size_bytes"`
	DownloadURL  string         `gorm:"-" json:"download_url,omitempty"` // computed field, presigned URL
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderFile model
func (OrderFile) TableName() string {
	return "order_files"
}
