package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/db"
	"github.com/sitepress/internal/service"
)

func createArticle(t *testing.T, s *testServer, cookies []*http.Cookie, payload gin.H) db.Article {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/admin/articles", payload, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Article db.Article `json:"article"`
	}
	decodeBody(t, w, &body)
	return body.Article
}

func TestCreateArticleGeneratesSlug(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	article := createArticle(t, s, cookies, gin.H{
		"title":     "Café Owners Brace For Winter!",
		"content":   "Body",
		"author":    "Staff",
		"category":  "business",
		"published": true,
	})
	if article.Slug != "cafe-owners-brace-for-winter" {
		t.Fatalf("unexpected slug %q", article.Slug)
	}
	if article.PublishedAt == nil {
		t.Fatalf("expected published_at to default to now")
	}

	w := s.do(t, http.MethodPost, "/api/admin/articles", gin.H{
		"title": "Cafe owners brace for winter", "content": "Again", "author": "Staff",
	}, cookies)
	assertErrorMessage(t, w, http.StatusConflict, "slug")
}

func TestCreateArticleRequiresFields(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	w := s.do(t, http.MethodPost, "/api/admin/articles", gin.H{"title": "Only a title"}, cookies)
	assertErrorMessage(t, w, http.StatusBadRequest, "required")
}

func TestDraftArticleHiddenFromPublicViews(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	createArticle(t, s, cookies, gin.H{"title": "Draft Story", "content": "wip", "author": "A", "category": "world"})
	createArticle(t, s, cookies, gin.H{"title": "Live Story", "content": "**bold**", "author": "A", "category": "world", "published": true, "featured": true})

	if w := s.do(t, http.MethodGet, "/api/news/articles/draft-story", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected draft detail to 404, got %d", w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/news/section/WORLD", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var section service.SectionPage
	decodeBody(t, w, &section)
	if len(section.Articles) != 1 || section.Articles[0].Slug != "live-story" {
		t.Fatalf("expected only the published article, got %+v", section.Articles)
	}
	if section.Label != "World" {
		t.Fatalf("expected World label, got %q", section.Label)
	}

	w = s.do(t, http.MethodGet, "/api/news/home", nil, nil)
	var home service.HomePage
	decodeBody(t, w, &home)
	if len(home.Featured) != 1 || len(home.Latest) != 1 {
		t.Fatalf("expected one featured and one latest article, got %d/%d", len(home.Featured), len(home.Latest))
	}

	w = s.do(t, http.MethodGet, "/api/news/articles/live-story", nil, nil)
	var detail service.ArticleDetail
	decodeBody(t, w, &detail)
	if !strings.Contains(detail.ContentHTML, "<strong>bold</strong>") {
		t.Fatalf("expected rendered markdown, got %q", detail.ContentHTML)
	}

	w = s.do(t, http.MethodGet, "/api/admin/articles", nil, cookies)
	var all struct {
		Articles []db.Article `json:"articles"`
	}
	decodeBody(t, w, &all)
	if len(all.Articles) != 2 {
		t.Fatalf("expected admin list to include drafts, got %d", len(all.Articles))
	}
}

func TestUnknownSectionReturnsNotFound(t *testing.T) {
	s := setupHandlerTest(t, Options{})

	w := s.do(t, http.MethodGet, "/api/news/section/weather", nil, nil)
	assertErrorMessage(t, w, http.StatusNotFound, "Unknown section")
}

func TestUpdateAndDeleteArticle(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	article := createArticle(t, s, cookies, gin.H{"title": "First", "content": "c", "author": "a"})

	target := fmt.Sprintf("/api/admin/articles/%d", article.ID)
	w := s.do(t, http.MethodPut, target, gin.H{"title": "First Revised", "slug": "first", "content": "c2", "author": "a", "published": true}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodGet, "/api/news/articles/first", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("expected published article to be readable, got %d", w.Code)
	}

	if w := s.do(t, http.MethodDelete, target, nil, cookies); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, target, nil, cookies); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/admin/articles/abc", nil, cookies); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", w.Code)
	}
}
