package models

import "time"

// Like references exactly one of {playlist, comment}; the CHECK constraint
// rejects rows with both or neither target. The two partial unique indexes
// stop duplicate likes per (user, target); NULL columns never collide.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CreatedByID uint  `gorm:"not null;uniqueIndex:idx_like_user_playlist;uniqueIndex:idx_like_user_comment;check:chk_like_single_target,(playlist_id IS NULL) <> (comment_id IS NULL)" json:"created_by_id"`
	PlaylistID  *uint `gorm:"uniqueIndex:idx_like_user_playlist" json:"playlist_id"`
	CommentID   *uint `gorm:"uniqueIndex:idx_like_user_comment" json:"comment_id"`

	CreatedBy User      `gorm:"foreignKey:CreatedByID" json:"-"`
	Playlist  *Playlist `gorm:"foreignKey:PlaylistID" json:"-"`
	Comment   *Comment  `gorm:"foreignKey:CommentID" json:"-"`
}
