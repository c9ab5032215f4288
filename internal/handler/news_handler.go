package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/db"
)

// ShowNewsHome 返回新闻首页：头条、最新与各栏目文章
func (a *API) ShowNewsHome(c *gin.Context) {
	home, err := a.articles.Home(c.Request.Context())
	if err != nil {
		respondServiceError(c, "fetch home articles", err, "Failed to fetch articles")
		return
	}
	c.JSON(http.StatusOK, home)
}

// ShowSection 返回某一栏目下的全部已发布文章
func (a *API) ShowSection(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Param("category")))
	section, err := a.articles.Section(c.Request.Context(), category)
	if err != nil {
		respondServiceError(c, "fetch section "+category, err, "Failed to fetch articles")
		return
	}
	c.JSON(http.StatusOK, section)
}

// ShowArticle 按 slug 返回已发布文章及相关阅读
func (a *API) ShowArticle(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	detail, err := a.articles.Detail(c.Request.Context(), slug)
	if err != nil {
		respondServiceError(c, "fetch article "+slug, err, "Failed to fetch article")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListCategories returns the article categories with their labels.
func (a *API) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": db.Categories})
}
