package models

import (
	"time"
)

// RefreshToken stores the SHA-256 hash of an issued refresh token. The raw
// token only ever lives on the client; rotation revokes the old row.
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"` // UUID
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TokenHash string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
	CreatedAt time.Time  `json:"created_at"`
}
