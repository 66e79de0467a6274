package comments

import (
	"context"
	"errors"
	"fmt"

	"scriptorium/internal/ranking"
)

// Store is the content-store contract the pipeline depends on. The gorm
// adapter in internal/db implements it; tests inject fakes.
type Store interface {
	// CommentsForPost returns every comment attached to the post, including
	// hidden and deleted ones, in any order. It returns ErrPostNotFound when
	// the post itself does not exist.
	CommentsForPost(ctx context.Context, postID uint) ([]Comment, error)
}

// ListResult is the paginated output of the aggregation pipeline. Reply
// subtrees travel with their root; only the top level is paginated.
type ListResult struct {
	Items    []*RenderedComment `json:"items"`
	HasMore  bool               `json:"has_more"`
	NextPage *int               `json:"next_page"`
}

// Service runs the comment aggregation pipeline: fetch, annotate with
// metrics, build the reply tree, paginate the top level, redact.
//
// The store handle is injected at construction; the service holds no other
// state, so one instance serves all requests.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListForPost returns one page of the rendered comment tree for a post.
// The requested strategy orders top-level comments only; replies stay
// chronological. Page and pageSize must be positive.
func (s *Service) ListForPost(ctx context.Context, postID uint, strategy ranking.Strategy, page, pageSize int, viewer *Viewer) (*ListResult, error) {
	if page < 1 || pageSize < 1 {
		return nil, ranking.ErrInvalidPage
	}

	flat, err := s.store.CommentsForPost(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	roots := BuildTree(flat, strategy, viewer)

	items, hasMore, err := ranking.Paginate(roots, page, pageSize)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Items: items, HasMore: hasMore}
	if hasMore {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}
