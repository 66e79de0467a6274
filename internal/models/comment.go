package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Cid       string    `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID  *uint     `gorm:"index" json:"author_id"` // Nullable: author account removed
	Author    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent    *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsHidden  bool      `gorm:"default:false;index" json:"is_hidden"`  // Moderator action
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"` // Author action, independent of IsHidden
	Votes     []Vote    `gorm:"foreignKey:CommentID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	// No UpdatedAt: comments are not editable, only soft-deleted
}
