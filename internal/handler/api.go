package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/auth"
	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	repo        *content.Repository
	articles    *service.ArticleService
	projects    *service.ProjectService
	services    *service.ServiceCatalog
	leads       *service.LeadService
	dashboard   *service.DashboardService
	accounts    *service.AuthService
	images      ImageStore
	sessions    *auth.Hub
	allowSignup bool
}

// Options configures optional behaviour of the handler set.
type Options struct {
	AllowSignup bool
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, images ImageStore, hub *auth.Hub, opts Options) *API {
	repo := content.NewRepository(gdb)
	if hub == nil {
		hub = auth.NewHub()
	}

	return &API{
		db:          gdb,
		repo:        repo,
		articles:    service.NewArticleService(repo),
		projects:    service.NewProjectService(repo),
		services:    service.NewServiceCatalog(repo),
		leads:       service.NewLeadService(repo),
		dashboard:   service.NewDashboardService(repo),
		accounts:    service.NewAuthService(gdb),
		images:      images,
		sessions:    hub,
		allowSignup: opts.AllowSignup,
	}
}

// Sessions exposes the session-change hub.
func (a *API) Sessions() *auth.Hub {
	return a.sessions
}

// Guard returns the admin middleware backed by the account store.
func (a *API) Guard() gin.HandlerFunc {
	return auth.Guard(a.accounts)
}
