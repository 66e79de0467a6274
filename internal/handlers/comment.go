package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/comments"
	"scriptorium/internal/db"
	"scriptorium/internal/middleware"
	"scriptorium/internal/models"
	"scriptorium/internal/ranking"
	"scriptorium/internal/services"
	"scriptorium/internal/utils"
)

const maxCommentLength = 10000

type CommentHandler struct {
	db  *gorm.DB
	svc *comments.Service
}

func NewCommentHandler(database *gorm.DB) *CommentHandler {
	return &CommentHandler{
		db:  database,
		svc: comments.NewService(db.NewCommentStore(database)),
	}
}

type createCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// List returns the rendered comment tree for a post, sorted, paginated over
// top-level comments only.
func (h *CommentHandler) List(c *gin.Context) {
	page, pageSize, ok := pagingParams(c)
	if !ok {
		jsonError(c, http.StatusBadRequest, "page and pageSize must be positive integers")
		return
	}

	post, ok := h.resolvePost(c, middleware.CurrentUser(c))
	if !ok {
		return
	}

	viewer := commentViewer(middleware.CurrentUser(c))
	strategy := ranking.ParseStrategy(c.Query("sort"))

	result, err := h.svc.ListForPost(c.Request.Context(), post.ID, strategy, page, pageSize, viewer)
	if err != nil {
		switch {
		case errors.Is(err, comments.ErrPostNotFound):
			jsonError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, ranking.ErrInvalidPage):
			jsonError(c, http.StatusBadRequest, err.Error())
		default:
			jsonError(c, http.StatusInternalServerError, "failed to load comments")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "content is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" || len(req.Content) > maxCommentLength {
		jsonError(c, http.StatusBadRequest, "content must be non-empty and at most 10000 characters")
		return
	}

	post, ok := h.resolvePost(c, user)
	if !ok {
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		err := h.db.WithContext(c.Request.Context()).First(&parent, *req.ParentID).Error
		if err != nil || parent.PostID != post.ID || parent.IsDeleted {
			jsonError(c, http.StatusBadRequest, "parent comment not found on this post")
			return
		}
	}

	comment := models.Comment{
		Cid:      utils.RandID(8),
		PostID:   post.ID,
		AuthorID: &user.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&comment).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cid": comment.Cid, "id": comment.ID})
}

// Delete soft-deletes a comment. The row survives so replies keep their
// place in the tree; rendering replaces content and author with placeholders.
func (h *CommentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var comment models.Comment
	err := h.db.WithContext(c.Request.Context()).
		Where("cid = ? AND is_deleted = ?", c.Param("cid"), false).
		First(&comment).Error
	if err != nil {
		jsonError(c, http.StatusNotFound, "comment not found")
		return
	}
	if !isOwner(user, comment.AuthorID) && !user.IsAdmin() {
		jsonError(c, http.StatusForbidden, "only the author can delete this comment")
		return
	}

	err = h.db.WithContext(c.Request.Context()).
		Model(&comment).
		Update("is_deleted", true).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// resolvePost maps :pid to a post the viewer is allowed to see.
func (h *CommentHandler) resolvePost(c *gin.Context, user *services.AuthUser) (*models.Post, bool) {
	var post models.Post
	err := h.db.WithContext(c.Request.Context()).
		Where("pid = ?", c.Param("pid")).
		First(&post).Error
	if err != nil {
		jsonError(c, http.StatusNotFound, "post not found")
		return nil, false
	}

	if post.IsDeleted || (post.IsHidden && !user.IsAdmin() && !isOwner(user, post.AuthorID)) {
		jsonError(c, http.StatusNotFound, "post not found")
		return nil, false
	}
	return &post, true
}

func commentViewer(user *services.AuthUser) *comments.Viewer {
	if user == nil {
		return nil
	}
	return &comments.Viewer{
		UserID:      user.ID,
		CanModerate: user.IsAdmin(),
	}
}
