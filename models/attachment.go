package models

import "time"

// Attachment rows describe a file already uploaded to object storage; the
// upload controller writes them after a presigned PUT completes.
type Attachment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CreatedByID uint   `gorm:"not null;index" json:"created_by_id"`
	FileURL     string `gorm:"not null" json:"file_url"`
	Key         string `gorm:"not null" json:"key"`
	Type        string `gorm:"size:200" json:"type"`
	Name        string `gorm:"size:200" json:"name"`
	Size        int64  `json:"size"`

	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"-"`
}
