package models

import (
	"time"
)

type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Pid       string         `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	AuthorID  *uint          `gorm:"index" json:"author_id"` // Nullable: author account removed
	Author    *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"` // Markdown
	Tags      []Tag          `gorm:"many2many:post_tags;" json:"tags"`
	Templates []CodeTemplate `gorm:"many2many:post_templates;" json:"templates"`
	IsHidden  bool           `gorm:"default:false;index" json:"is_hidden"`  // Moderator action
	IsDeleted bool           `gorm:"default:false;index" json:"is_deleted"` // Author action, independent of IsHidden
	Votes     []Vote         `gorm:"foreignKey:PostID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Not a database column; filled in at query time
	CommentCount int `gorm:"-" json:"comment_count"`
}
