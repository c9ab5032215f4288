package router

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/auth"
	"github.com/sitepress/internal/config"
	"github.com/sitepress/internal/handler"
	"github.com/sitepress/internal/middleware"
	"github.com/sitepress/internal/storage"
	"gorm.io/gorm"
)

const sessionCookieName = "sitepress_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	secret := cfg.SessionSecret
	if strings.TrimSpace(secret) == "" {
		log.Printf("[WARN] SESSION_SECRET is empty, using an insecure development secret")
		secret = "sitepress-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, store))

	// 上传文件的静态服务，/uploads 作为兼容别名
	images := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPath, cfg.UploadMaxBytes)
	r.Static(images.URLPath(), images.Dir())
	if images.URLPath() != "/uploads" {
		r.Static("/uploads", images.Dir())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := handler.NewAPI(gdb, images, auth.NewHub(), handler.Options{AllowSignup: cfg.AllowSignup})
	contactLimit := middleware.NewRateLimiter(cfg.ContactRatePerMinute, cfg.ContactBurst)
	signInLimit := middleware.NewRateLimiter(cfg.SignInRatePerMinute, cfg.SignInBurst)

	// 新闻站公开接口
	news := r.Group("/api/news")
	{
		news.GET("/home", api.ShowNewsHome)
		news.GET("/section/:category", api.ShowSection)
		news.GET("/articles/:slug", api.ShowArticle)
		news.GET("/categories", api.ListCategories)
	}

	// 工程站公开接口
	build := r.Group("/api/build")
	{
		build.GET("/projects", api.ListProjects)
		build.GET("/services", api.ListServices)
		build.GET("/contact/options", api.ContactOptions)
		build.POST("/contact", contactLimit.Handler(), api.SubmitContact)
	}

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signin", signInLimit.Handler(), api.SignIn)
		authGroup.POST("/signup", signInLimit.Handler(), api.SignUp)
		authGroup.POST("/signout", api.SignOut)
		authGroup.GET("/session", api.CurrentSession)
		authGroup.GET("/events", api.SessionEvents)
	}

	// 通用表接口：读公开（按会话收紧范围），写需登录
	tables := r.Group("/api/tables")
	{
		tables.GET("/:table", api.ListTableRows)
		tables.GET("/:table/slug/:slug", api.GetTableRowBySlug)

		write := tables.Group("", api.Guard())
		write.POST("/:table", api.InsertTableRow)
		write.PATCH("/:table/:id", api.UpdateTableRow)
		write.DELETE("/:table/:id", api.DeleteTableRow)
	}

	// 需要认证的后台接口
	admin := r.Group("/api/admin", api.Guard())
	{
		admin.GET("/dashboard", api.ShowDashboard)

		admin.GET("/articles", api.ListArticles)
		admin.GET("/articles/:id", api.GetArticle)
		admin.POST("/articles", api.CreateArticle)
		admin.PUT("/articles/:id", api.UpdateArticle)
		admin.DELETE("/articles/:id", api.DeleteArticle)

		admin.GET("/projects", api.ListAdminProjects)
		admin.POST("/projects", api.CreateProject)
		admin.PUT("/projects/:id", api.UpdateProject)
		admin.DELETE("/projects/:id", api.DeleteProject)

		admin.GET("/services", api.ListAdminServices)
		admin.POST("/services", api.CreateService)
		admin.PUT("/services/:id", api.UpdateService)
		admin.DELETE("/services/:id", api.DeleteService)

		admin.GET("/leads", api.ListLeads)
		admin.PATCH("/leads/:id/status", api.UpdateLeadStatus)
		admin.DELETE("/leads/:id", api.DeleteLead)

		admin.POST("/uploads", api.UploadImage)
	}

	return r
}
