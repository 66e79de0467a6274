package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/models"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(database *gorm.DB) *AdminHandler {
	return &AdminHandler{db: database}
}

type reportedItem struct {
	ItemType     string    `json:"item_type"`
	ItemPid      string    `json:"item_pid"`
	ReportCount  int       `json:"report_count"`
	LastReported time.Time `json:"last_reported"`
}

type reportView struct {
	ID        uint      `json:"id"`
	Reporter  string    `json:"reporter"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ListReports returns reported content grouped per item, most-reported first,
// with the individual reports attached per item.
func (h *AdminHandler) ListReports(c *gin.Context) {
	page, pageSize, ok := pagingParams(c)
	if !ok {
		jsonError(c, http.StatusBadRequest, "page and pageSize must be positive integers")
		return
	}

	var total int64
	h.db.Model(&models.Report{}).
		Distinct("item_type, item_pid").
		Count(&total)

	var items []reportedItem
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Report{}).
		Select("item_type, item_pid, COUNT(*) as report_count, MAX(created_at) as last_reported").
		Group("item_type, item_pid").
		Order("report_count DESC, last_reported DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&items).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load reports")
		return
	}

	type itemWithReports struct {
		reportedItem
		Reports []reportView `json:"reports"`
	}

	views := make([]itemWithReports, 0, len(items))
	for _, item := range items {
		var reports []models.Report
		err := h.db.WithContext(c.Request.Context()).
			Preload("User").
			Where("item_type = ? AND item_pid = ?", item.ItemType, item.ItemPid).
			Order("created_at DESC").
			Find(&reports).Error
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "failed to load reports")
			return
		}

		view := itemWithReports{reportedItem: item, Reports: make([]reportView, 0, len(reports))}
		for _, r := range reports {
			view.Reports = append(view.Reports, reportView{
				ID:        r.ID,
				Reporter:  r.User.Username,
				Reason:    r.Reason,
				CreatedAt: r.CreatedAt,
			})
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    views,
		"total":    total,
		"has_more": int64(page*pageSize) < total,
	})
}

// Hide marks a post or comment hidden. Hidden items stay in comment trees as
// a notice; hidden posts drop out of public listings.
func (h *AdminHandler) Hide(c *gin.Context) {
	h.setHidden(c, true)
}

// Unhide restores a hidden post or comment.
func (h *AdminHandler) Unhide(c *gin.Context) {
	h.setHidden(c, false)
}

func (h *AdminHandler) setHidden(c *gin.Context, hidden bool) {
	publicID := c.Param("id")

	var err error
	var affected int64
	switch c.Param("type") {
	case "post":
		res := h.db.WithContext(c.Request.Context()).
			Model(&models.Post{}).
			Where("pid = ? AND is_deleted = ?", publicID, false).
			Update("is_hidden", hidden)
		err, affected = res.Error, res.RowsAffected
	case "comment":
		res := h.db.WithContext(c.Request.Context()).
			Model(&models.Comment{}).
			Where("cid = ? AND is_deleted = ?", publicID, false).
			Update("is_hidden", hidden)
		err, affected = res.Error, res.RowsAffected
	default:
		jsonError(c, http.StatusBadRequest, "type must be post or comment")
		return
	}

	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update item")
		return
	}
	if affected == 0 {
		jsonError(c, http.StatusNotFound, "item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hidden": hidden})
}
