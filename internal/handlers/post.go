package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/middleware"
	"scriptorium/internal/models"
	"scriptorium/internal/ranking"
	"scriptorium/internal/services"
	"scriptorium/internal/utils"
)

const listCacheTTL = time.Minute

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(database *gorm.DB) *PostHandler {
	return &PostHandler{db: database}
}

type postView struct {
	Pid          string          `json:"pid"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	Tags         []string        `json:"tags"`
	CommentCount int             `json:"comment_count"`
	Metrics      ranking.Metrics `json:"metrics"`
	CreatedAt    time.Time       `json:"created_at"`
}

type postDetail struct {
	postView
	Content     string         `json:"content"`
	ContentHTML template.HTML  `json:"content_html"`
	IsHidden    bool           `json:"is_hidden"`
	Templates   []templateView `json:"templates"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type postRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// ratedPost pairs a post with its vote metrics so the sort engine can rank it.
type ratedPost struct {
	post    models.Post
	metrics ranking.Metrics
	score   int // relevance score, only set during search
}

func (p ratedPost) RankCreatedAt() time.Time     { return p.post.CreatedAt }
func (p ratedPost) RankMetrics() ranking.Metrics { return p.metrics }

func (h *PostHandler) List(c *gin.Context) {
	page, pageSize, ok := pagingParams(c)
	if !ok {
		jsonError(c, http.StatusBadRequest, "page and pageSize must be positive integers")
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	strategy := ranking.ParseStrategy(c.Query("sort"))
	if strategy == ranking.SortMostRelevant && query == "" {
		strategy = ranking.SortNew
	}

	cacheKey := ""
	if query == "" {
		cacheKey = fmt.Sprintf("posts:%s:%d:%d", strategy, page, pageSize)
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if data, ok := cached.(gin.H); ok {
				c.JSON(http.StatusOK, data)
				return
			}
		}
	}

	var posts []models.Post
	err := h.db.WithContext(c.Request.Context()).
		Preload("Author").
		Preload("Tags").
		Preload("Votes").
		Where("is_deleted = ? AND is_hidden = ?", false, false).
		Find(&posts).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	rated := make([]ratedPost, 0, len(posts))
	for _, p := range posts {
		rp := ratedPost{post: p, metrics: ranking.Calculate(voteValues(p.Votes))}
		if query != "" {
			rp.score = ranking.RelevanceScore(query, ranking.Document{
				Title:       p.Title,
				Tags:        tagNames(p.Tags),
				Explanation: p.Content,
			})
			if rp.score == 0 {
				continue
			}
		}
		rated = append(rated, rp)
	}

	if strategy == ranking.SortMostRelevant {
		sort.SliceStable(rated, func(i, j int) bool {
			if rated[i].score != rated[j].score {
				return rated[i].score > rated[j].score
			}
			return rated[i].post.CreatedAt.After(rated[j].post.CreatedAt)
		})
	} else {
		ranking.SortBy(rated, strategy)
	}

	pageItems, hasMore, err := ranking.Paginate(rated, page, pageSize)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	pagePosts := make([]models.Post, 0, len(pageItems))
	for _, rp := range pageItems {
		pagePosts = append(pagePosts, rp.post)
	}
	h.fillCommentCounts(pagePosts)

	views := make([]postView, 0, len(pageItems))
	for i, rp := range pageItems {
		views = append(views, newPostView(pagePosts[i], rp.metrics))
	}

	data := gin.H{
		"items":    views,
		"has_more": hasMore,
	}
	if hasMore {
		data["next_page"] = page + 1
	}

	if cacheKey != "" {
		utils.GetCache().Set(cacheKey, data, listCacheTTL)
	}
	c.JSON(http.StatusOK, data)
}

func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := h.loadVisiblePost(c, middleware.CurrentUser(c))
	if !ok {
		return
	}

	counted := []models.Post{*post}
	h.fillCommentCounts(counted)
	post.CommentCount = counted[0].CommentCount

	detail := postDetail{
		postView:    newPostView(*post, ranking.Calculate(voteValues(post.Votes))),
		Content:     post.Content,
		ContentHTML: utils.RenderMarkdown(post.Content),
		IsHidden:    post.IsHidden,
		Templates:   make([]templateView, 0, len(post.Templates)),
		UpdatedAt:   post.UpdatedAt,
	}
	detail.CommentCount = post.CommentCount
	for _, t := range post.Templates {
		detail.Templates = append(detail.Templates, newTemplateView(t))
	}

	c.JSON(http.StatusOK, detail)
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "title and content are required")
		return
	}
	if len(req.Title) > 200 {
		jsonError(c, http.StatusBadRequest, "title too long (max 200 characters)")
		return
	}

	tags, err := upsertTags(h.db, req.Tags)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save tags")
		return
	}

	post := models.Post{
		Pid:      utils.RandID(8),
		AuthorID: &user.ID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Tags:     tags,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pid": post.Pid})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "title and content are required")
		return
	}

	var post models.Post
	err := h.db.WithContext(c.Request.Context()).
		Where("pid = ? AND is_deleted = ?", c.Param("pid"), false).
		First(&post).Error
	if err != nil {
		jsonError(c, http.StatusNotFound, "post not found")
		return
	}
	if !isOwner(user, post.AuthorID) {
		jsonError(c, http.StatusForbidden, "only the author can edit this post")
		return
	}

	tags, err := upsertTags(h.db, req.Tags)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save tags")
		return
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	if err := h.db.WithContext(c.Request.Context()).Save(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update post")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Model(&post).Association("Tags").Replace(tags); err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pid": post.Pid})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var post models.Post
	err := h.db.WithContext(c.Request.Context()).
		Where("pid = ? AND is_deleted = ?", c.Param("pid"), false).
		First(&post).Error
	if err != nil {
		jsonError(c, http.StatusNotFound, "post not found")
		return
	}
	if !isOwner(user, post.AuthorID) && !user.IsAdmin() {
		jsonError(c, http.StatusForbidden, "only the author can delete this post")
		return
	}

	// Soft delete keeps the row so comment threads stay attached.
	err = h.db.WithContext(c.Request.Context()).
		Model(&post).
		Update("is_deleted", true).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

// loadVisiblePost fetches the post behind :pid, applying visibility rules:
// deleted posts are gone for everyone, hidden posts only resolve for
// moderators and the author.
func (h *PostHandler) loadVisiblePost(c *gin.Context, user *services.AuthUser) (*models.Post, bool) {
	var post models.Post
	err := h.db.WithContext(c.Request.Context()).
		Preload("Author").
		Preload("Tags").
		Preload("Votes").
		Preload("Templates").
		Preload("Templates.Author").
		Where("pid = ?", c.Param("pid")).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "post not found")
		} else {
			jsonError(c, http.StatusInternalServerError, "failed to load post")
		}
		return nil, false
	}

	if post.IsDeleted {
		jsonError(c, http.StatusNotFound, "post not found")
		return nil, false
	}
	if post.IsHidden && !user.IsAdmin() && !isOwner(user, post.AuthorID) {
		jsonError(c, http.StatusNotFound, "post not found")
		return nil, false
	}
	return &post, true
}

// fillCommentCounts batch-loads comment counts for a page of posts.
func (h *PostHandler) fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	h.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ? AND is_deleted = ?", postIDs, false).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

func newPostView(p models.Post, m ranking.Metrics) postView {
	v := postView{
		Pid:          p.Pid,
		Title:        p.Title,
		Tags:         tagNames(p.Tags),
		CommentCount: p.CommentCount,
		Metrics:      m,
		CreatedAt:    p.CreatedAt,
	}
	if p.Author != nil {
		v.Author = p.Author.Username
	}
	return v
}

func isOwner(user *services.AuthUser, authorID *uint) bool {
	return user != nil && authorID != nil && *authorID == user.ID
}

// upsertTags resolves tag names to rows, creating missing ones. Names are
// normalized to lowercase so "Go" and "go" share a tag.
func upsertTags(database *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := database.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
