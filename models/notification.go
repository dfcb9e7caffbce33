package models

import "time"

type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`

	RecipientID uint   `gorm:"not null;index" json:"-"`
	ActorID     uint   `json:"actor_id"`
	Type        string `gorm:"size:30;index" json:"type"` // follow, like, comment, reply
	Data        string `gorm:"type:jsonb" json:"data"`
	Unread      bool   `gorm:"not null;default:true;index" json:"unread"`

	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}
