package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/models"
)

type TagHandler struct {
	db *gorm.DB
}

func NewTagHandler(database *gorm.DB) *TagHandler {
	return &TagHandler{db: database}
}

// List returns all tags with how many visible posts carry each.
func (h *TagHandler) List(c *gin.Context) {
	type tagCount struct {
		Name  string `json:"name"`
		Count int    `json:"post_count"`
	}

	var results []tagCount
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Tag{}).
		Select("tags.name, COUNT(posts.id) as count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.is_deleted = false AND posts.is_hidden = false").
		Group("tags.name").
		Order("count DESC, tags.name ASC").
		Scan(&results).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": results})
}
