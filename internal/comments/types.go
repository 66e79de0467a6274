package comments

import (
	"time"

	"scriptorium/internal/ranking"
)

// Comment is the raw, read-only view of one stored comment that the content
// store hands the aggregation pipeline. The store owns the entity; the
// pipeline only borrows it for the duration of one request.
type Comment struct {
	ID         uint
	PostID     uint
	ParentID   *uint // nil for top-level comments
	AuthorID   *uint // nil once the author account is removed
	AuthorName string
	Content    string
	IsHidden   bool // moderator action
	IsDeleted  bool // author action, independent of IsHidden
	CreatedAt  time.Time
	Votes      []int // raw vote values; 0 entries are retracted votes
}

// RenderedComment is the output projection: redacted content, aggregate
// score, and chronologically ordered replies.
type RenderedComment struct {
	ID          uint               `json:"id"`
	Content     string             `json:"content"`
	Author      string             `json:"author"`
	CreatedAt   time.Time          `json:"created_at"`
	Score       int                `json:"score"`
	Metrics     ranking.Metrics    `json:"metrics"`
	IsHidden    bool               `json:"is_hidden"`
	IsDeleted   bool               `json:"is_deleted"`
	AllowAction bool               `json:"allow_action"`
	Replies     []*RenderedComment `json:"replies"`
}

// Viewer identifies who is looking at the thread. A nil *Viewer means an
// anonymous reader.
type Viewer struct {
	UserID      uint
	CanModerate bool
}

// ratedComment pairs a raw comment with its computed metrics so the sort
// engine can order it.
type ratedComment struct {
	Comment
	metrics ranking.Metrics
}

func (c ratedComment) RankCreatedAt() time.Time     { return c.CreatedAt }
func (c ratedComment) RankMetrics() ranking.Metrics { return c.metrics }
