package models

import (
	"time"
)

// Vote is one user's rating of one post or comment. At most one row exists
// per (user, target); a re-vote mutates Value in place and a retraction sets
// Value to 0 rather than deleting the row.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_post_vote;uniqueIndex:idx_comment_vote" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_post_vote" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_comment_vote" json:"comment_id"`
	Value     int       `gorm:"not null" json:"value"` // 1, -1, or 0 (retracted)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PG treats NULLs as distinct in unique indexes, so idx_post_vote only bites
// when post_id is not null and idx_comment_vote only when comment_id is not null.
