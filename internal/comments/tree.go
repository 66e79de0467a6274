package comments

import (
	"log"

	"scriptorium/internal/ranking"
)

const (
	// HiddenNotice replaces the content of moderator-hidden comments.
	HiddenNotice = "[This comment has been hidden by a moderator.]"
	// DeletedPlaceholder replaces both content and author of deleted comments.
	DeletedPlaceholder = "[deleted]"
)

// BuildTree assembles a flat set of comments belonging to one post into a
// sequence of rendered root comments with nested replies.
//
// Top-level comments are ordered by the requested strategy; replies are
// always ordered oldest-first so conversation order inside a thread stays
// chronological even when the thread list is sorted by score. A reply whose
// parent is missing from the working set is dropped from the tree.
func BuildTree(flat []Comment, strategy ranking.Strategy, viewer *Viewer) []*RenderedComment {
	roots := make([]ratedComment, 0, len(flat))
	replies := make([]ratedComment, 0, len(flat))
	for _, c := range flat {
		rated := ratedComment{Comment: c, metrics: ranking.Calculate(c.Votes)}
		if c.ParentID == nil {
			roots = append(roots, rated)
		} else {
			replies = append(replies, rated)
		}
	}

	ranking.SortBy(roots, strategy)
	ranking.SortBy(replies, ranking.SortOld)

	// Fresh index per call: nodes never alias across requests.
	index := make(map[uint]*RenderedComment, len(flat))

	rootViews := make([]*RenderedComment, 0, len(roots))
	for _, c := range roots {
		view := render(c, viewer)
		index[c.ID] = view
		rootViews = append(rootViews, view)
	}
	for _, c := range replies {
		index[c.ID] = render(c, viewer)
	}

	// Replies are already chronological, so appending preserves order.
	for _, c := range replies {
		parent, ok := index[*c.ParentID]
		if !ok {
			// Orphan: the parent was filtered out upstream. Dropping silently
			// matches moderation expectations, but keep it observable.
			log.Printf("Warning: dropping orphan reply %d, parent %d not in working set", c.ID, *c.ParentID)
			continue
		}
		parent.Replies = append(parent.Replies, index[c.ID])
	}

	return rootViews
}

// render projects one comment into its viewer-facing form, applying the
// redaction rules. Deletion wins over hiding: a deleted comment never exposes
// original content or author, regardless of viewer capability.
func render(c ratedComment, viewer *Viewer) *RenderedComment {
	view := &RenderedComment{
		ID:          c.ID,
		Content:     c.Content,
		Author:      c.AuthorName,
		CreatedAt:   c.CreatedAt,
		Score:       c.metrics.TotalScore,
		Metrics:     c.metrics,
		AllowAction: true,
		Replies:     make([]*RenderedComment, 0), // never nil, for JSON
	}
	if view.Author == "" {
		view.Author = DeletedPlaceholder
	}

	if c.IsHidden {
		view.IsHidden = true
		view.Content = HiddenNotice
		if canViewHidden(c.Comment, viewer) {
			view.Content = HiddenNotice + "\n\n" + c.Content
		}
	}

	if c.IsDeleted {
		view.IsDeleted = true
		view.Content = DeletedPlaceholder
		view.Author = DeletedPlaceholder
		view.AllowAction = false
	}

	return view
}

// canViewHidden reports whether the viewer may see the original content of a
// hidden comment: moderators, or the comment's own author.
func canViewHidden(c Comment, viewer *Viewer) bool {
	if viewer == nil {
		return false
	}
	if viewer.CanModerate {
		return true
	}
	return c.AuthorID != nil && *c.AuthorID == viewer.UserID
}
