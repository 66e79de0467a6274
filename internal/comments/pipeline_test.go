package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptorium/internal/ranking"
)

type fakeStore struct {
	comments map[uint][]Comment
	err      error
}

func (f *fakeStore) CommentsForPost(_ context.Context, postID uint) ([]Comment, error) {
	if f.err != nil {
		return nil, f.err
	}
	flat, ok := f.comments[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	return flat, nil
}

func TestListForPost(t *testing.T) {
	store := &fakeStore{comments: map[uint][]Comment{7: sampleThread()}}
	svc := NewService(store)

	result, err := svc.ListForPost(context.Background(), 7, ranking.SortTop, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, uint(1), result.Items[0].ID)
	assert.False(t, result.HasMore)
	assert.Nil(t, result.NextPage)
}

func TestListForPostPaginatesRoots(t *testing.T) {
	store := &fakeStore{comments: map[uint][]Comment{7: sampleThread()}}
	svc := NewService(store)

	// Two roots, one per page. Page 1 carries its reply subtree whole.
	result, err := svc.ListForPost(context.Background(), 7, ranking.SortTop, 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, uint(1), result.Items[0].ID)
	assert.Len(t, result.Items[0].Replies, 1)
	assert.True(t, result.HasMore)
	require.NotNil(t, result.NextPage)
	assert.Equal(t, 2, *result.NextPage)

	result, err = svc.ListForPost(context.Background(), 7, ranking.SortTop, 2, 1, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, uint(3), result.Items[0].ID)
	assert.False(t, result.HasMore)
	assert.Nil(t, result.NextPage)
}

func TestListForPostEmptyThread(t *testing.T) {
	store := &fakeStore{comments: map[uint][]Comment{7: {}}}
	svc := NewService(store)

	result, err := svc.ListForPost(context.Background(), 7, ranking.SortNew, 1, 10, nil)
	require.NoError(t, err)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.False(t, result.HasMore)
}

func TestListForPostUnknownPost(t *testing.T) {
	store := &fakeStore{comments: map[uint][]Comment{}}
	svc := NewService(store)

	_, err := svc.ListForPost(context.Background(), 404, ranking.SortNew, 1, 10, nil)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListForPostInvalidPaging(t *testing.T) {
	store := &fakeStore{comments: map[uint][]Comment{7: sampleThread()}}
	svc := NewService(store)

	_, err := svc.ListForPost(context.Background(), 7, ranking.SortNew, 0, 10, nil)
	assert.ErrorIs(t, err, ranking.ErrInvalidPage)

	_, err = svc.ListForPost(context.Background(), 7, ranking.SortNew, 1, 0, nil)
	assert.ErrorIs(t, err, ranking.ErrInvalidPage)
}

func TestListForPostWrapsStoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewService(&fakeStore{err: storeErr})

	_, err := svc.ListForPost(context.Background(), 7, ranking.SortNew, 1, 10, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrPostNotFound)
}

func TestListForPostPassesViewerThrough(t *testing.T) {
	flat := []Comment{
		{ID: 1, AuthorID: ptr(10), AuthorName: "ada", Content: "secret", IsHidden: true, CreatedAt: ts(0)},
	}
	svc := NewService(&fakeStore{comments: map[uint][]Comment{7: flat}})

	moderator := &Viewer{UserID: 1, CanModerate: true}
	result, err := svc.ListForPost(context.Background(), 7, ranking.SortNew, 1, 10, moderator)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Contains(t, result.Items[0].Content, "secret")

	result, err = svc.ListForPost(context.Background(), 7, ranking.SortNew, 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, HiddenNotice, result.Items[0].Content)
}
