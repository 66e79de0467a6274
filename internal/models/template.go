package models

import (
	"time"
)

// CodeTemplate is a runnable code snippet with an explanation. Templates can
// be forked: the fork copies content and remembers its origin via ForkedFromID.
type CodeTemplate struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Tid          string        `gorm:"uniqueIndex;size:8;not null" json:"tid"`
	AuthorID     *uint         `gorm:"index" json:"author_id"`
	Author       *User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author"`
	Title        string        `gorm:"not null" json:"title"`
	Explanation  string        `gorm:"type:text" json:"explanation"`
	Code         string        `gorm:"type:text;not null" json:"code"`
	Language     string        `gorm:"size:30;not null" json:"language"`
	Tags         []Tag         `gorm:"many2many:template_tags;" json:"tags"`
	ForkedFromID *uint         `gorm:"index" json:"forked_from_id"`
	ForkedFrom   *CodeTemplate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
