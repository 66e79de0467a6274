package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/middleware"
	"scriptorium/internal/models"
	"scriptorium/internal/ranking"
)

type VoteHandler struct {
	db *gorm.DB
}

func NewVoteHandler(database *gorm.DB) *VoteHandler {
	return &VoteHandler{db: database}
}

type voteRequest struct {
	Value int `json:"value"`
}

type reportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Vote records an upvote (1), downvote (-1) or retraction (0) on a post or
// comment. One row per user per item; repeat votes update in place.
func (h *VoteHandler) Vote(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "value is required")
		return
	}
	if req.Value != -1 && req.Value != 0 && req.Value != 1 {
		jsonError(c, http.StatusBadRequest, "value must be -1, 0 or 1")
		return
	}

	itemType, itemID, ok := h.resolveItem(c)
	if !ok {
		return
	}

	var existing models.Vote
	query := h.db.WithContext(c.Request.Context()).Where("user_id = ?", user.ID)
	if itemType == "post" {
		query = query.Where("post_id = ?", itemID)
	} else {
		query = query.Where("comment_id = ?", itemID)
	}

	err := query.First(&existing).Error
	switch {
	case err == nil:
		if existing.Value != req.Value {
			err = h.db.WithContext(c.Request.Context()).
				Model(&existing).
				Update("value", req.Value).Error
			if err != nil {
				jsonError(c, http.StatusInternalServerError, "failed to record vote")
				return
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{UserID: user.ID, Value: req.Value}
		if itemType == "post" {
			vote.PostID = &itemID
		} else {
			vote.CommentID = &itemID
		}
		if err := h.db.WithContext(c.Request.Context()).Create(&vote).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "failed to record vote")
			return
		}
	default:
		jsonError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": h.itemMetrics(c, itemType, itemID)})
}

// Report files a moderation report against a post or comment.
func (h *VoteHandler) Report(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "reason is required")
		return
	}
	if len(req.Reason) > 200 {
		jsonError(c, http.StatusBadRequest, "reason too long (max 200 characters)")
		return
	}

	itemType, itemID, ok := h.resolveItem(c)
	if !ok {
		return
	}

	report := models.Report{
		UserID:   user.ID,
		ItemType: itemType,
		ItemID:   itemID,
		ItemPid:  c.Param("id"),
		Reason:   strings.TrimSpace(req.Reason),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&report).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to file report")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": report.ID})
}

// resolveItem maps :type/:id (public ids) to a live post or comment.
func (h *VoteHandler) resolveItem(c *gin.Context) (string, uint, bool) {
	itemType := c.Param("type")
	publicID := c.Param("id")

	switch itemType {
	case "post":
		var post models.Post
		err := h.db.WithContext(c.Request.Context()).
			Where("pid = ? AND is_deleted = ?", publicID, false).
			First(&post).Error
		if err != nil {
			jsonError(c, http.StatusNotFound, "post not found")
			return "", 0, false
		}
		return itemType, post.ID, true
	case "comment":
		var comment models.Comment
		err := h.db.WithContext(c.Request.Context()).
			Where("cid = ? AND is_deleted = ?", publicID, false).
			First(&comment).Error
		if err != nil {
			jsonError(c, http.StatusNotFound, "comment not found")
			return "", 0, false
		}
		return itemType, comment.ID, true
	default:
		jsonError(c, http.StatusBadRequest, "type must be post or comment")
		return "", 0, false
	}
}

func (h *VoteHandler) itemMetrics(c *gin.Context, itemType string, itemID uint) ranking.Metrics {
	var votes []models.Vote
	query := h.db.WithContext(c.Request.Context())
	if itemType == "post" {
		query = query.Where("post_id = ?", itemID)
	} else {
		query = query.Where("comment_id = ?", itemID)
	}
	query.Find(&votes)

	return ranking.Calculate(voteValues(votes))
}
