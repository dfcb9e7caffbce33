package models

import "time"

// Comment always belongs to a playlist. A reply (ReplyingID set) must point
// at a comment on the same playlist; the controller checks containment before
// the insert.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatedByID uint   `gorm:"not null" json:"created_by_id"`
	PlaylistID  uint   `gorm:"not null;index" json:"playlist_id"`
	ReplyingID  *uint  `json:"replying_id"`
	Content     string `gorm:"type:text;not null" json:"content"`

	CreatedBy   User         `gorm:"foreignKey:CreatedByID" json:"created_by"`
	Playlist    Playlist     `gorm:"foreignKey:PlaylistID" json:"-"`
	Replying    *Comment     `gorm:"foreignKey:ReplyingID" json:"-"`
	Attachments []Attachment `gorm:"many2many:comment_attachments" json:"attachments"`
	Likes       []Like       `gorm:"foreignKey:CommentID" json:"-"`
}
