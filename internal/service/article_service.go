package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
	"golang.org/x/sync/errgroup"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrSlugTaken       = errors.New("slug is already used by another article")
	ErrInvalidCategory = errors.New("unknown article category")
)

// 首页各区块的条数
const (
	homeFeaturedLimit = 3
	homeLatestLimit   = 12
	homeCategoryLimit = 4
	relatedLimit      = 3
)

// HomeCategories 是首页按栏目展示的分类，顺序即展示顺序
var HomeCategories = []string{
	db.CategoryUS,
	db.CategoryWorld,
	db.CategoryBusiness,
	db.CategoryArts,
	db.CategoryLifestyle,
	db.CategoryOpinion,
}

// datetime-local 输入框与 ISO 时间戳都需要接受
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ArticleService implements the news site's article reads and admin writes.
type ArticleService struct {
	repo *content.Repository
	now  func() time.Time
}

// ArticleInput represents the admin article form.
type ArticleInput struct {
	Title            string
	Slug             string
	Excerpt          string
	Content          string
	Author           string
	Category         string
	Section          string
	FeaturedImageURL string
	Published        bool
	Featured         bool
	PublishedAt      string
}

// CategoryBlock groups the newest articles of one category.
type CategoryBlock struct {
	Category string       `json:"category"`
	Label    string       `json:"label"`
	Articles []db.Article `json:"articles"`
}

// HomePage is everything the front page renders.
type HomePage struct {
	Featured   []db.Article    `json:"featured"`
	Latest     []db.Article    `json:"latest"`
	Categories []CategoryBlock `json:"categories"`
}

// SectionPage lists the published articles of one category.
type SectionPage struct {
	Category string       `json:"category"`
	Label    string       `json:"label"`
	Articles []db.Article `json:"articles"`
}

// ArticleDetail is a published article with rendered body and related reads.
type ArticleDetail struct {
	Article       db.Article   `json:"article"`
	CategoryLabel string       `json:"category_label"`
	ContentHTML   string       `json:"content_html"`
	Related       []db.Article `json:"related"`
}

// NewArticleService creates an ArticleService.
func NewArticleService(repo *content.Repository) *ArticleService {
	return &ArticleService{repo: repo, now: time.Now}
}

func (s *ArticleService) published(ctx context.Context, limit int, filters ...content.Filter) ([]db.Article, error) {
	articles := []db.Article{}
	err := s.repo.List(ctx, content.Articles, content.Query{
		Filters: append([]content.Filter{content.Eq("published", true)}, filters...),
		Order:   content.Desc("published_at"),
		Limit:   limit,
	}, &articles)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// Home loads the featured, latest and per-category blocks concurrently.
func (s *ArticleService) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{Categories: make([]CategoryBlock, len(HomeCategories))}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		featured, err := s.published(gctx, homeFeaturedLimit, content.Eq("featured", true))
		page.Featured = featured
		return err
	})
	g.Go(func() error {
		latest, err := s.published(gctx, homeLatestLimit)
		page.Latest = latest
		return err
	})
	for i, category := range HomeCategories {
		i, category := i, category
		g.Go(func() error {
			articles, err := s.published(gctx, homeCategoryLimit, content.Eq("category", category))
			page.Categories[i] = CategoryBlock{
				Category: category,
				Label:    db.CategoryLabel(category),
				Articles: articles,
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// Section lists every published article of category, newest first.
func (s *ArticleService) Section(ctx context.Context, category string) (*SectionPage, error) {
	if !db.IsCategory(category) {
		return nil, ErrInvalidCategory
	}
	articles, err := s.published(ctx, 0, content.Eq("category", category))
	if err != nil {
		return nil, err
	}
	return &SectionPage{
		Category: category,
		Label:    db.CategoryLabel(category),
		Articles: articles,
	}, nil
}

// Detail returns the published article with slug and up to three related articles.
func (s *ArticleService) Detail(ctx context.Context, slug string) (*ArticleDetail, error) {
	var article db.Article
	if err := s.repo.GetBySlug(ctx, content.Articles, slug, &article, content.Eq("published", true)); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	related, err := s.published(ctx, relatedLimit,
		content.Eq("category", article.Category),
		content.Neq("id", article.ID),
	)
	if err != nil {
		return nil, err
	}

	rendered, err := RenderMarkdown(article.Content)
	if err != nil {
		return nil, fmt.Errorf("render article %d: %w", article.ID, err)
	}

	return &ArticleDetail{
		Article:       article,
		CategoryLabel: db.CategoryLabel(article.Category),
		ContentHTML:   rendered,
		Related:       related,
	}, nil
}

// ListAll returns every article, drafts included, newest first.
func (s *ArticleService) ListAll(ctx context.Context) ([]db.Article, error) {
	articles := []db.Article{}
	if err := s.repo.List(ctx, content.Articles, content.Query{Order: content.Desc("created_at")}, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Get fetches an article by id regardless of its published state.
func (s *ArticleService) Get(ctx context.Context, id uint) (*db.Article, error) {
	var article db.Article
	if err := s.repo.Get(ctx, content.Articles, id, &article); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Create validates input and inserts a new article.
func (s *ArticleService) Create(ctx context.Context, input ArticleInput) (*db.Article, error) {
	article, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, article.Slug, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, content.Articles, article); err != nil {
		if errors.Is(err, content.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return article, nil
}

// Update replaces every editable field of the article with id.
func (s *ArticleService) Update(ctx context.Context, id uint, input ArticleInput) (*db.Article, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	article, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, article.Slug, id); err != nil {
		return nil, err
	}
	// 已发布文章再次保存且未指定时间时沿用原发布时间
	if article.Published && trimSpace(input.PublishedAt) == "" && existing.PublishedAt != nil {
		article.PublishedAt = existing.PublishedAt
	}

	var publishedAt interface{}
	if article.PublishedAt != nil {
		publishedAt = *article.PublishedAt
	}

	err = s.repo.Update(ctx, content.Articles, id, map[string]interface{}{
		"title":              article.Title,
		"slug":               article.Slug,
		"excerpt":            deref(article.Excerpt),
		"content":            article.Content,
		"author":             article.Author,
		"category":           article.Category,
		"section":            deref(article.Section),
		"featured_image_url": deref(article.FeaturedImageURL),
		"published":          article.Published,
		"featured":           article.Featured,
		"published_at":       publishedAt,
	})
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		if errors.Is(err, content.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// PrepareRow applies the article write rules to a raw row before a generic
// insert: the slug is normalized (or derived from the title) and must be
// unused, and published_at follows the published flag.
func (s *ArticleService) PrepareRow(ctx context.Context, row *db.Article) error {
	slug := GenerateSlug(row.Slug)
	if slug == "" {
		slug = GenerateSlug(row.Title)
	}
	if slug == "" {
		return invalid("Slug could not be derived from the title, please enter one")
	}
	if err := s.ensureSlugFree(ctx, slug, 0); err != nil {
		return err
	}
	row.Slug = slug

	switch {
	case !row.Published:
		row.PublishedAt = nil
	case row.PublishedAt == nil:
		ts := s.now().UTC()
		row.PublishedAt = &ts
	}
	return nil
}

// PreparePatch is PrepareRow for a partial update of the article with id.
// Only the keys present in patch are touched.
func (s *ArticleService) PreparePatch(ctx context.Context, id uint, patch map[string]interface{}) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if raw, ok := patch["slug"]; ok {
		input, _ := raw.(string)
		title := existing.Title
		if t, ok := patch["title"].(string); ok {
			title = t
		}
		slug := GenerateSlug(input)
		if slug == "" {
			slug = GenerateSlug(title)
		}
		if slug == "" {
			return invalid("Slug could not be derived from the title, please enter one")
		}
		if err := s.ensureSlugFree(ctx, slug, id); err != nil {
			return err
		}
		patch["slug"] = slug
	}

	published, ok := patch["published"].(bool)
	if !ok {
		return nil
	}
	if !published {
		patch["published_at"] = nil
		return nil
	}
	if v, given := patch["published_at"]; given && v != nil {
		return nil
	}
	// 首次发布取当前时间，已有发布时间则保留
	if existing.PublishedAt == nil {
		patch["published_at"] = s.now().UTC()
	} else {
		delete(patch, "published_at")
	}
	return nil
}

// Delete removes the article with id.
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, content.Articles, id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	return nil
}

func (s *ArticleService) ensureSlugFree(ctx context.Context, slug string, selfID uint) error {
	var existing db.Article
	err := s.repo.GetBySlug(ctx, content.Articles, slug, &existing)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrSlugTaken
	}
	return nil
}

func (s *ArticleService) normalize(input ArticleInput) (*db.Article, error) {
	title := trimSpace(input.Title)
	body := trimSpace(input.Content)
	author := trimSpace(input.Author)
	if title == "" || body == "" || author == "" {
		return nil, invalid("Please fill in all required fields")
	}

	slug := GenerateSlug(input.Slug)
	if slug == "" {
		slug = GenerateSlug(title)
	}
	if slug == "" {
		return nil, invalid("Slug could not be derived from the title, please enter one")
	}

	category := trimSpace(input.Category)
	if category == "" {
		category = db.CategoryUS
	}
	if !db.IsCategory(category) {
		return nil, invalid("Please choose a valid category")
	}

	var publishedAt *time.Time
	if input.Published {
		ts := s.now().UTC()
		if raw := trimSpace(input.PublishedAt); raw != "" {
			parsed, err := parsePublishedAt(raw)
			if err != nil {
				return nil, invalid("Published date is not a valid date")
			}
			ts = parsed
		}
		publishedAt = &ts
	}

	return &db.Article{
		Title:            title,
		Slug:             slug,
		Excerpt:          optional(input.Excerpt),
		Content:          body,
		Author:           author,
		Category:         category,
		Section:          optional(input.Section),
		FeaturedImageURL: optional(input.FeaturedImageURL),
		Published:        input.Published,
		Featured:         input.Featured,
		PublishedAt:      publishedAt,
	}, nil
}

func parsePublishedAt(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range publishedAtLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
