package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/middleware"
	"scriptorium/internal/models"
	"scriptorium/internal/ranking"
	"scriptorium/internal/utils"
)

type TemplateHandler struct {
	db *gorm.DB
}

func NewTemplateHandler(database *gorm.DB) *TemplateHandler {
	return &TemplateHandler{db: database}
}

type templateView struct {
	Tid       string    `json:"tid"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Language  string    `json:"language"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

type templateDetail struct {
	templateView
	Explanation string    `json:"explanation"`
	Code        string    `json:"code"`
	ForkedFrom  string    `json:"forked_from,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type templateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Explanation string   `json:"explanation"`
	Code        string   `json:"code" binding:"required"`
	Language    string   `json:"language" binding:"required"`
	Tags        []string `json:"tags"`
}

// scoredTemplate lets the sort engine rank templates. Templates carry no
// votes, so top/controversial degrade to newest-first via the tie-breaks.
type scoredTemplate struct {
	tpl   models.CodeTemplate
	score int
}

func (t scoredTemplate) RankCreatedAt() time.Time     { return t.tpl.CreatedAt }
func (t scoredTemplate) RankMetrics() ranking.Metrics { return ranking.Metrics{} }

func (h *TemplateHandler) List(c *gin.Context) {
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

	var templates []models.CodeTemplate
	err := h.db.WithContext(c.Request.Context()).
		Preload("Author").
		Preload("Tags").
		Find(&templates).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load templates")
		return
	}

	scored := make([]scoredTemplate, 0, len(templates))
	for _, t := range templates {
		st := scoredTemplate{tpl: t}
		if query != "" {
			st.score = ranking.RelevanceScore(query, ranking.Document{
				Title:       t.Title,
				Tags:        tagNames(t.Tags),
				Explanation: t.Explanation,
				Code:        t.Code,
			})
			if st.score == 0 {
				continue
			}
		}
		scored = append(scored, st)
	}

	if strategy == ranking.SortMostRelevant {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].score != scored[j].score {
				return scored[i].score > scored[j].score
			}
			return scored[i].tpl.CreatedAt.After(scored[j].tpl.CreatedAt)
		})
	} else {
		ranking.SortBy(scored, strategy)
	}

	pageItems, hasMore, err := ranking.Paginate(scored, page, pageSize)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	views := make([]templateView, 0, len(pageItems))
	for _, st := range pageItems {
		views = append(views, newTemplateView(st.tpl))
	}

	data := gin.H{
		"items":    views,
		"has_more": hasMore,
	}
	if hasMore {
		data["next_page"] = page + 1
	}
	c.JSON(http.StatusOK, data)
}

func (h *TemplateHandler) Detail(c *gin.Context) {
	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}

	detail := templateDetail{
		templateView: newTemplateView(*tpl),
		Explanation:  tpl.Explanation,
		Code:         tpl.Code,
		UpdatedAt:    tpl.UpdatedAt,
	}
	if tpl.ForkedFrom != nil {
		detail.ForkedFrom = tpl.ForkedFrom.Tid
	}
	c.JSON(http.StatusOK, detail)
}

func (h *TemplateHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "title, code and language are required")
		return
	}

	tags, err := upsertTags(h.db, req.Tags)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save tags")
		return
	}

	tpl := models.CodeTemplate{
		Tid:         utils.RandID(8),
		AuthorID:    &user.ID,
		Title:       strings.TrimSpace(req.Title),
		Explanation: req.Explanation,
		Code:        req.Code,
		Language:    strings.ToLower(strings.TrimSpace(req.Language)),
		Tags:        tags,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&tpl).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create template")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tid": tpl.Tid})
}

func (h *TemplateHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "title, code and language are required")
		return
	}

	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	if !isOwner(user, tpl.AuthorID) {
		jsonError(c, http.StatusForbidden, "only the author can edit this template")
		return
	}

	tags, err := upsertTags(h.db, req.Tags)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save tags")
		return
	}

	tpl.Title = strings.TrimSpace(req.Title)
	tpl.Explanation = req.Explanation
	tpl.Code = req.Code
	tpl.Language = strings.ToLower(strings.TrimSpace(req.Language))
	if err := h.db.WithContext(c.Request.Context()).Save(tpl).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update template")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Model(tpl).Association("Tags").Replace(tags); err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tid": tpl.Tid})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	if !isOwner(user, tpl.AuthorID) && !user.IsAdmin() {
		jsonError(c, http.StatusForbidden, "only the author can delete this template")
		return
	}

	// Forks keep working: forked_from_id is SET NULL on delete.
	if err := h.db.WithContext(c.Request.Context()).Select("Tags").Delete(tpl).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete template")
		return
	}
	c.Status(http.StatusNoContent)
}

// Fork copies a template under the caller's account, recording lineage.
func (h *TemplateHandler) Fork(c *gin.Context) {
	user := middleware.CurrentUser(c)

	src, ok := h.loadTemplate(c)
	if !ok {
		return
	}

	fork := models.CodeTemplate{
		Tid:          utils.RandID(8),
		AuthorID:     &user.ID,
		Title:        src.Title,
		Explanation:  src.Explanation,
		Code:         src.Code,
		Language:     src.Language,
		Tags:         src.Tags,
		ForkedFromID: &src.ID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&fork).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to fork template")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tid": fork.Tid, "forked_from": src.Tid})
}

func (h *TemplateHandler) loadTemplate(c *gin.Context) (*models.CodeTemplate, bool) {
	var tpl models.CodeTemplate
	err := h.db.WithContext(c.Request.Context()).
		Preload("Author").
		Preload("Tags").
		Preload("ForkedFrom").
		Where("tid = ?", c.Param("tid")).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "template not found")
		} else {
			jsonError(c, http.StatusInternalServerError, "failed to load template")
		}
		return nil, false
	}
	return &tpl, true
}

func newTemplateView(t models.CodeTemplate) templateView {
	v := templateView{
		Tid:       t.Tid,
		Title:     t.Title,
		Language:  t.Language,
		Tags:      tagNames(t.Tags),
		CreatedAt: t.CreatedAt,
	}
	if t.Author != nil {
		v.Author = t.Author.Username
	}
	return v
}
