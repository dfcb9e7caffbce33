package models

import (
	"time"

	"github.com/lib/pq"
)

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Content  string         `gorm:"type:text;not null" json:"content"`
	Hashtags pq.StringArray `gorm:"type:text[]" json:"hashtags"`

	Attachments []Attachment `gorm:"many2many:message_attachments" json:"attachments"`
}

// Thread is a feed node. Replying and Sharing are mutually exclusive
// self-references; a reply additionally requires a message. The controller
// validates both rules to return field errors, the CHECK constraints back
// them at commit time.
type Thread struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CreatedByID uint  `gorm:"not null;check:chk_thread_reply_has_message,(replying_id IS NULL) OR (message_id IS NOT NULL)" json:"created_by_id"`
	ReplyingID  *uint `gorm:"check:chk_thread_reply_xor_share,NOT (replying_id IS NOT NULL AND sharing_id IS NOT NULL)" json:"replying_id"`
	SharingID   *uint `json:"sharing_id"`
	MessageID   *uint `json:"message_id"`

	CreatedBy User     `gorm:"foreignKey:CreatedByID" json:"created_by"`
	Replying  *Thread  `gorm:"foreignKey:ReplyingID" json:"-"`
	Sharing   *Thread  `gorm:"foreignKey:SharingID" json:"-"`
	Message   *Message `gorm:"foreignKey:MessageID" json:"message"`
}
