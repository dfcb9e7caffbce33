package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email    string  `gorm:"unique;not null" json:"email"`
	Username *string `gorm:"uniqueIndex" json:"username"`
	Password string  `gorm:"not null" json:"-"` // bcrypt hash, never exposed

	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Bio            string     `gorm:"type:text" json:"bio"`
	Location       string     `gorm:"size:100" json:"location"`
	ProfilePicture string     `json:"profile_picture"`
	Cover          string     `json:"cover"`

	// Deactivated accounts keep their rows; IsActive gates login and listing.
	IsActive bool `gorm:"not null;default:false" json:"is_active"`
	IsStaff  bool `gorm:"not null;default:false" json:"-"`

	// Signed reset-password envelope. Empty when no reset is pending.
	ResetToken *string `gorm:"size:300" json:"-"`

	GoogleID   *string `json:"-"`
	Provider   string  `gorm:"size:20;default:'email'" json:"-"`
	ProviderID string  `json:"-"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Followers     []Follow       `gorm:"foreignKey:FollowedID" json:"-"`
	Following     []Follow       `gorm:"foreignKey:FollowerID" json:"-"`
}
