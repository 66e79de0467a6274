package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scriptorium/internal/comments"
	"scriptorium/internal/models"
)

// CommentStore adapts the gorm-backed schema to the aggregation pipeline's
// Store contract.
type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(database *gorm.DB) *CommentStore {
	return &CommentStore{db: database}
}

// CommentsForPost loads every comment on the post, hidden and deleted ones
// included, with author names and raw vote values attached.
func (s *CommentStore) CommentsForPost(ctx context.Context, postID uint) ([]comments.Comment, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Select("id").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comments.ErrPostNotFound
		}
		return nil, err
	}

	var rows []models.Comment
	err = s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	flat := make([]comments.Comment, 0, len(rows))
	for _, row := range rows {
		c := comments.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			ParentID:  row.ParentID,
			AuthorID:  row.AuthorID,
			Content:   row.Content,
			IsHidden:  row.IsHidden,
			IsDeleted: row.IsDeleted,
			CreatedAt: row.CreatedAt,
			Votes:     voteValues(row.Votes),
		}
		if row.Author != nil {
			c.AuthorName = row.Author.Username
		}
		flat = append(flat, c)
	}
	return flat, nil
}

func voteValues(votes []models.Vote) []int {
	values := make([]int, 0, len(votes))
	for _, v := range votes {
		values = append(values, v.Value)
	}
	return values
}
