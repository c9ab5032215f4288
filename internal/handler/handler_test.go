package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/db"
	"github.com/sitepress/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "secret123"
)

type testServer struct {
	engine *gin.Engine
	api    *API
	db     *gorm.DB
	store  *storage.LocalStore
}

func setupHandlerTest(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	if err := db.EnsureUser(gdb, testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	store := storage.NewLocalStore(t.TempDir(), "/static/uploads", 1<<20)
	api := NewAPI(gdb, store, nil, opts)

	r := gin.New()
	sessionStore := cookie.NewStore([]byte("test-secret"))
	sessionStore.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("sitepress_session", sessionStore))

	r.GET("/api/news/home", api.ShowNewsHome)
	r.GET("/api/news/section/:category", api.ShowSection)
	r.GET("/api/news/articles/:slug", api.ShowArticle)
	r.GET("/api/news/categories", api.ListCategories)

	r.GET("/api/build/projects", api.ListProjects)
	r.GET("/api/build/services", api.ListServices)
	r.POST("/api/build/contact", api.SubmitContact)
	r.GET("/api/build/contact/options", api.ContactOptions)

	r.POST("/api/auth/signin", api.SignIn)
	r.POST("/api/auth/signup", api.SignUp)
	r.POST("/api/auth/signout", api.SignOut)
	r.GET("/api/auth/session", api.CurrentSession)
	r.GET("/api/auth/events", api.SessionEvents)

	r.GET("/api/tables/:table", api.ListTableRows)
	r.GET("/api/tables/:table/slug/:slug", api.GetTableRowBySlug)

	admin := r.Group("/api/admin", api.Guard())
	admin.GET("/articles", api.ListArticles)
	admin.POST("/articles", api.CreateArticle)
	admin.GET("/articles/:id", api.GetArticle)
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
	admin.GET("/dashboard", api.ShowDashboard)
	admin.POST("/uploads", api.UploadImage)

	tables := r.Group("/api/tables", api.Guard())
	tables.POST("/:table", api.InsertTableRow)
	tables.PATCH("/:table/:id", api.UpdateTableRow)
	tables.DELETE("/:table/:id", api.DeleteTableRow)

	return &testServer{engine: r, api: api, db: gdb, store: store}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signIn(t *testing.T) []*http.Cookie {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/signin", gin.H{"email": testAdminEmail, "password": testAdminPassword}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign in failed: %d %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie after sign in")
	}
	return cookies
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
}

func assertErrorMessage(t *testing.T, w *httptest.ResponseRecorder, status int, contains string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if !strings.Contains(body["error"], contains) {
		t.Fatalf("expected error containing %q, got %q", contains, body["error"])
	}
}
