package ranking

import (
	"errors"
)

// ErrInvalidPage reports a non-positive page number or page size reaching the
// slicer. The route layer validates these first; this guard keeps the slicer
// from ever producing negative indices.
var ErrInvalidPage = errors.New("page and page size must be positive")

// Paginate returns the 1-based page of items plus whether more pages follow.
// The returned slice is a view into items, not a copy. A page past the end
// yields an empty slice and hasMore false.
func Paginate[T any](items []T, page, size int) ([]T, bool, error) {
	if page < 1 || size < 1 {
		return nil, false, ErrInvalidPage
	}

	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, false, nil
	}

	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], end < len(items), nil
}
