package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/service"
)

type articlePayload struct {
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Excerpt          string `json:"excerpt"`
	Content          string `json:"content"`
	Author           string `json:"author"`
	Category         string `json:"category"`
	Section          string `json:"section"`
	FeaturedImageURL string `json:"featured_image_url"`
	Published        bool   `json:"published"`
	Featured         bool   `json:"featured"`
	PublishedAt      string `json:"published_at"`
}

func (p articlePayload) toInput() service.ArticleInput {
	return service.ArticleInput{
		Title:            p.Title,
		Slug:             p.Slug,
		Excerpt:          p.Excerpt,
		Content:          p.Content,
		Author:           p.Author,
		Category:         p.Category,
		Section:          p.Section,
		FeaturedImageURL: p.FeaturedImageURL,
		Published:        p.Published,
		Featured:         p.Featured,
		PublishedAt:      p.PublishedAt,
	}
}

// ListArticles 返回全部文章（含草稿），按创建时间倒序
func (a *API) ListArticles(c *gin.Context) {
	articles, err := a.articles.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, "fetch articles", err, "Failed to fetch articles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle 获取单篇文章
func (a *API) GetArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid article id")
		return
	}
	article, err := a.articles.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "fetch article", err, "Failed to fetch article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// CreateArticle 创建新文章
func (a *API) CreateArticle(c *gin.Context) {
	var payload articlePayload
	if !bindJSON(c, &payload, "Invalid article data") {
		return
	}

	article, err := a.articles.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		respondServiceError(c, "create article", err, "Failed to save article")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Article created successfully", "article": article})
}

// UpdateArticle 更新文章
func (a *API) UpdateArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid article id")
		return
	}

	var payload articlePayload
	if !bindJSON(c, &payload, "Invalid article data") {
		return
	}

	article, err := a.articles.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		respondServiceError(c, "update article", err, "Failed to save article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article updated successfully", "article": article})
}

// DeleteArticle 删除文章
func (a *API) DeleteArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid article id")
		return
	}
	if err := a.articles.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, "delete article", err, "Failed to delete article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}
