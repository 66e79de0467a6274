package comments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptorium/internal/ranking"
)

func ts(minutes int) time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(minutes) * time.Minute)
}

func ptr(v uint) *uint { return &v }

// Three comments: two roots and a reply under the first. Root 1 is older but
// higher scored; root 3 is newer, downvoted into controversy.
func sampleThread() []Comment {
	return []Comment{
		{ID: 1, PostID: 7, AuthorID: ptr(10), AuthorName: "ada", Content: "first", CreatedAt: ts(0), Votes: []int{1, 1, 1}},
		{ID: 2, PostID: 7, ParentID: ptr(1), AuthorID: ptr(11), AuthorName: "brian", Content: "reply", CreatedAt: ts(5), Votes: []int{1}},
		{ID: 3, PostID: 7, AuthorID: ptr(12), AuthorName: "clara", Content: "second", CreatedAt: ts(10), Votes: []int{1, 1, -1, -1}},
	}
}

func rootIDs(roots []*RenderedComment) []uint {
	ids := make([]uint, 0, len(roots))
	for _, r := range roots {
		ids = append(ids, r.ID)
	}
	return ids
}

func countNodes(roots []*RenderedComment) int {
	n := 0
	for _, r := range roots {
		n += 1 + countNodes(r.Replies)
	}
	return n
}

func TestBuildTreeTop(t *testing.T) {
	roots := BuildTree(sampleThread(), ranking.SortTop, nil)

	require.Len(t, roots, 2)
	assert.Equal(t, []uint{1, 3}, rootIDs(roots))

	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, uint(2), roots[0].Replies[0].ID)
	assert.Empty(t, roots[1].Replies)
}

func TestBuildTreeControversial(t *testing.T) {
	roots := BuildTree(sampleThread(), ranking.SortControversial, nil)

	// The split vote on 3 outweighs the unanimous upvotes on 1.
	assert.Equal(t, []uint{3, 1}, rootIDs(roots))
}

func TestBuildTreeRepliesStayChronological(t *testing.T) {
	flat := []Comment{
		{ID: 1, Content: "root", CreatedAt: ts(0)},
		{ID: 2, ParentID: ptr(1), Content: "late reply", CreatedAt: ts(30), Votes: []int{1, 1, 1}},
		{ID: 3, ParentID: ptr(1), Content: "early reply", CreatedAt: ts(10)},
	}

	// Even under top sort, replies order by age, not score.
	roots := BuildTree(flat, ranking.SortTop, nil)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, uint(3), roots[0].Replies[0].ID)
	assert.Equal(t, uint(2), roots[0].Replies[1].ID)
}

func TestBuildTreeNestedReplies(t *testing.T) {
	flat := []Comment{
		{ID: 1, Content: "root", CreatedAt: ts(0)},
		{ID: 2, ParentID: ptr(1), Content: "child", CreatedAt: ts(1)},
		{ID: 3, ParentID: ptr(2), Content: "grandchild", CreatedAt: ts(2)},
	}

	roots := BuildTree(flat, ranking.SortNew, nil)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 1)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(3), roots[0].Replies[0].Replies[0].ID)
	assert.Equal(t, 3, countNodes(roots))
}

func TestBuildTreeDropsOrphans(t *testing.T) {
	flat := []Comment{
		{ID: 1, Content: "root", CreatedAt: ts(0)},
		{ID: 2, ParentID: ptr(99), Content: "orphan", CreatedAt: ts(1)},
	}

	roots := BuildTree(flat, ranking.SortNew, nil)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Replies)
	assert.Equal(t, 1, countNodes(roots))
}

func TestBuildTreePreservesNodeCount(t *testing.T) {
	flat := sampleThread()
	roots := BuildTree(flat, ranking.SortNew, nil)
	assert.Equal(t, len(flat), countNodes(roots))
}

func TestBuildTreeEmptyInput(t *testing.T) {
	roots := BuildTree(nil, ranking.SortTop, nil)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestRenderHiddenForAnonymous(t *testing.T) {
	flat := []Comment{
		{ID: 1, AuthorID: ptr(10), AuthorName: "ada", Content: "secret", IsHidden: true, CreatedAt: ts(0)},
	}

	roots := BuildTree(flat, ranking.SortNew, nil)
	require.Len(t, roots, 1)
	assert.Equal(t, HiddenNotice, roots[0].Content)
	assert.True(t, roots[0].IsHidden)
	assert.True(t, roots[0].AllowAction)
	assert.Equal(t, "ada", roots[0].Author)
}

func TestRenderHiddenForModeratorAndAuthor(t *testing.T) {
	flat := []Comment{
		{ID: 1, AuthorID: ptr(10), AuthorName: "ada", Content: "secret", IsHidden: true, CreatedAt: ts(0)},
	}

	moderator := &Viewer{UserID: 99, CanModerate: true}
	roots := BuildTree(flat, ranking.SortNew, moderator)
	require.Len(t, roots, 1)
	assert.Contains(t, roots[0].Content, HiddenNotice)
	assert.Contains(t, roots[0].Content, "secret")

	author := &Viewer{UserID: 10}
	roots = BuildTree(flat, ranking.SortNew, author)
	assert.Contains(t, roots[0].Content, "secret")

	stranger := &Viewer{UserID: 11}
	roots = BuildTree(flat, ranking.SortNew, stranger)
	assert.Equal(t, HiddenNotice, roots[0].Content)
}

func TestRenderDeletedNeverLeaks(t *testing.T) {
	flat := []Comment{
		{ID: 1, AuthorID: ptr(10), AuthorName: "ada", Content: "gone", IsDeleted: true, CreatedAt: ts(0)},
	}

	// Deletion redacts for everyone, moderators included.
	for _, viewer := range []*Viewer{nil, {UserID: 10}, {UserID: 99, CanModerate: true}} {
		roots := BuildTree(flat, ranking.SortNew, viewer)
		require.Len(t, roots, 1)
		assert.Equal(t, DeletedPlaceholder, roots[0].Content)
		assert.Equal(t, DeletedPlaceholder, roots[0].Author)
		assert.False(t, roots[0].AllowAction)
		assert.NotContains(t, roots[0].Content, "gone")
	}
}

func TestRenderDeletedWinsOverHidden(t *testing.T) {
	flat := []Comment{
		{ID: 1, AuthorID: ptr(10), AuthorName: "ada", Content: "gone", IsHidden: true, IsDeleted: true, CreatedAt: ts(0)},
	}

	moderator := &Viewer{UserID: 99, CanModerate: true}
	roots := BuildTree(flat, ranking.SortNew, moderator)
	require.Len(t, roots, 1)
	assert.Equal(t, DeletedPlaceholder, roots[0].Content)
	assert.True(t, roots[0].IsHidden)
	assert.True(t, roots[0].IsDeleted)
	assert.False(t, roots[0].AllowAction)
}

func TestRenderMissingAuthor(t *testing.T) {
	flat := []Comment{
		{ID: 1, Content: "still here", CreatedAt: ts(0)},
	}

	roots := BuildTree(flat, ranking.SortNew, nil)
	require.Len(t, roots, 1)
	assert.Equal(t, DeletedPlaceholder, roots[0].Author)
	assert.Equal(t, "still here", roots[0].Content)
}

func TestRenderScoreAndMetrics(t *testing.T) {
	flat := []Comment{
		{ID: 1, AuthorName: "ada", Content: "x", CreatedAt: ts(0), Votes: []int{1, 1, -1, 0}},
	}

	roots := BuildTree(flat, ranking.SortNew, nil)
	require.Len(t, roots, 1)
	assert.Equal(t, 1, roots[0].Score)
	assert.Equal(t, 2, roots[0].Metrics.Upvotes)
	assert.Equal(t, 1, roots[0].Metrics.Downvotes)
	assert.Equal(t, 3, roots[0].Metrics.TotalVotes)
}
