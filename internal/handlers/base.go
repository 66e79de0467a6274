package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"scriptorium/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// jsonError writes the shared error envelope.
func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// pagingParams parses page/pageSize query params. ok is false when a param
// is present but not a positive integer; the caller should respond 400.
func pagingParams(c *gin.Context) (page, pageSize int, ok bool) {
	page = 1
	pageSize = defaultPageSize

	if p := c.Query("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}

	if p := c.Query("pageSize"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		pageSize = n
	}

	return page, pageSize, true
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func voteValues(votes []models.Vote) []int {
	values := make([]int, 0, len(votes))
	for _, v := range votes {
		values = append(values, v.Value)
	}
	return values
}
