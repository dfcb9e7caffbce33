package models

import (
	"time"

	"gorm.io/gorm"
)

type PlaylistCategory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:120;uniqueIndex;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Playlist struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedByID      uint   `gorm:"not null;uniqueIndex:idx_playlist_title_creator" json:"created_by_id"`
	Title            string `gorm:"size:120;not null;index;uniqueIndex:idx_playlist_title_creator" json:"title"`
	ShortDescription string `gorm:"type:text" json:"short_description"`
	CoverImage       string `json:"cover_image"`
	ActiveHours      int    `gorm:"not null;default:24" json:"active_hours"`
	Views            int64  `gorm:"not null;default:0" json:"views"`

	CreatedBy  User               `gorm:"foreignKey:CreatedByID" json:"created_by"`
	Categories []PlaylistCategory `gorm:"many2many:playlist_categories_m2m" json:"categories"`
	Songs      []Attachment       `gorm:"many2many:playlist_songs" json:"songs"`
	Comments   []Comment          `gorm:"foreignKey:PlaylistID" json:"-"`
	Likes      []Like             `gorm:"foreignKey:PlaylistID" json:"-"`
}
