package models

import "time"

// Follow is a directed edge: FollowerID follows FollowedID. Uniqueness of the
// ordered pair and the no-self-follow rule are enforced by the database so
// concurrent requests cannot race a pre-check.
type Follow struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	FollowerID uint `gorm:"not null;uniqueIndex:idx_follower_followed;check:chk_no_self_follow,follower_id <> followed_id" json:"follower_id"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follower_followed" json:"followed_id"`
	Blocked    bool `gorm:"not null;default:false" json:"blocked"`

	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID" json:"-"`
}
